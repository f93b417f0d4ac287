package bus

import "time"

// Event kinds published by the chat state store and its collaborators.
// Subscribers filter by namespace prefix, e.g. "chat." or "message.".
const (
	KindChatUpserted     = "chat.upserted"
	KindChatDeleted      = "chat.deleted"
	KindChatActivated    = "chat.activated"
	KindContactAdded     = "contact.added"
	KindMessageAppended  = "message.appended"
	KindSettingsChanged  = "settings.changed"
	KindAccountChanged   = "account.changed"
	KindStateImported    = "state.imported"
	KindStatusChanged    = "session.status_changed"
	KindNoticeDesktop    = "notice.desktop"
	KindNoticeStorageErr = "notice.storage_error"
	KindRemoteChanged    = "remote.changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps an event of the given kind with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
