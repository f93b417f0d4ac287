package chat

// ChatEvent is the payload of chat.upserted and chat.activated.
type ChatEvent struct {
	Chat    Chat
	Created bool
}

// DeleteEvent is the payload of chat.deleted. WasActive tells views to
// fall back to the empty state.
type DeleteEvent struct {
	ChatID    string
	WasActive bool
}

// ContactEvent is the payload of contact.added.
type ContactEvent struct {
	UserID  string
	Contact Contact
}

// MessageEvent is the payload of message.appended.
type MessageEvent struct {
	ChatID    string
	ContactID string
	UserID    string
	Message   Message
	// Remote is set for messages delivered by ReceiveMessage.
	Remote bool
}

// AccountEvent is the payload of account.changed. User is nil after
// sign-out or account deletion.
type AccountEvent struct {
	User *User
}
