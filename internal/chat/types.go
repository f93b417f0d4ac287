package chat

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Status is a contact's presence.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

func (s Status) valid() bool {
	return s == StatusOnline || s == StatusOffline
}

// User is the signed-in local user.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user id is empty")
	}
	return nil
}

// Profile is the editable per-user record stored under user_{id}.
type Profile struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// Contact is a counterpart the user can chat with. Unique by email.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Status Status `json:"status"`
}

func (c Contact) validate() error {
	switch {
	case c.ID == "":
		return errors.New("contact id is empty")
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("contact %s has no name", c.ID)
	case !validEmail(c.Email):
		return fmt.Errorf("contact %s has invalid email %q", c.ID, c.Email)
	case !c.Status.valid():
		return fmt.Errorf("contact %s has invalid status %q", c.ID, c.Status)
	}
	return nil
}

// Message is one entry in a chat. Messages are append-only.
type Message struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Sent      bool   `json:"sent"`
}

// Chat is a conversation with one contact. LastMessage and Timestamp
// mirror the tail of Messages once any message exists.
type Chat struct {
	ID          string    `json:"id"`
	ContactID   string    `json:"contactId,omitempty"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	Status      Status    `json:"status"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   string    `json:"timestamp"`
	Unread      int       `json:"unread"`
	Messages    []Message `json:"messages"`
}

func (c Chat) validate() error {
	switch {
	case c.ID == "":
		return errors.New("chat id is empty")
	case c.Unread < 0:
		return fmt.Errorf("chat %s has negative unread count", c.ID)
	case c.Status != "" && !c.Status.valid():
		return fmt.Errorf("chat %s has invalid status %q", c.ID, c.Status)
	}
	return nil
}

func (c Chat) clone() Chat {
	c.Messages = append(make([]Message, 0, len(c.Messages)), c.Messages...)
	return c
}

// contactList is the persisted shape of the contact collection.
type contactList []Contact

func (l *contactList) Validate() error {
	seen := make(map[string]bool, len(*l))
	for _, c := range *l {
		if err := c.validate(); err != nil {
			return err
		}
		key := strings.ToLower(c.Email)
		if seen[key] {
			return fmt.Errorf("duplicate contact email %q", c.Email)
		}
		seen[key] = true
	}
	return nil
}

// chatList is the persisted shape of the chat collection.
type chatList []Chat

func (l *chatList) Validate() error {
	seen := make(map[string]bool, len(*l))
	for i := range *l {
		c := &(*l)[i]
		if err := c.validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate chat id %q", c.ID)
		}
		seen[c.ID] = true
		if c.Messages == nil {
			c.Messages = []Message{}
		}
	}
	return nil
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

const avatarService = "https://ui-avatars.com/api/"

// AvatarURL returns the generated avatar image for a name or email.
func AvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return avatarService + "?name=" + escaped + "&background=007bff&color=fff&size=128"
}
