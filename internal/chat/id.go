package chat

import (
	"fmt"
	"net/url"
	"strings"
)

// ChatID derives the identity of the chat between a user and a contact.
// Both parts are query-escaped, so the ':' separator cannot occur inside
// either part and distinct pairs never collide.
func ChatID(userID, contactID string) string {
	return url.QueryEscape(userID) + ":" + url.QueryEscape(contactID)
}

// ParseChatID splits an id produced by ChatID.
func ParseChatID(id string) (userID, contactID string, err error) {
	u, c, ok := strings.Cut(id, ":")
	if !ok {
		return "", "", fmt.Errorf("chat id %q has no separator", id)
	}
	if userID, err = url.QueryUnescape(u); err != nil {
		return "", "", fmt.Errorf("chat id %q: %w", id, err)
	}
	if contactID, err = url.QueryUnescape(c); err != nil {
		return "", "", fmt.Errorf("chat id %q: %w", id, err)
	}
	return userID, contactID, nil
}
