package persist

// Snapshot domains. Each is written independently of the others.
const (
	KeyCurrentUser = "currentUser"
	KeyContacts    = "contacts"
	KeyChats       = "chats"
	KeySettings    = "appSettings"
	KeyLastActive  = "lastActive"

	profilePrefix = "user_"
)

// ProfileKey returns the key of the per-user profile record.
func ProfileKey(userID string) string {
	return profilePrefix + userID
}
