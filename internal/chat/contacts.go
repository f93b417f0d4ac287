package chat

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/persist"
)

// AddContact validates and appends a new contact. status defaults to
// offline when empty.
func (s *Store) AddContact(name, email string, status Status) (Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return Contact{}, invalid("name", "required")
	case email == "":
		return Contact{}, invalid("email", "required")
	case !validEmail(email):
		return Contact{}, invalid("email", fmt.Sprintf("%q is not a valid address", email))
	}
	if status == "" {
		status = StatusOffline
	}
	if !status.valid() {
		return Contact{}, invalid("status", fmt.Sprintf("%q is not online or offline", status))
	}

	return s.appendContact(Contact{
		ID:     s.newID(),
		Name:   name,
		Email:  email,
		Avatar: AvatarURL(email),
		Status: status,
	})
}

// ContactLink returns the link another user opens to add the current
// user as a contact.
func (s *Store) ContactLink() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return "", ErrSignedOut
	}
	return s.linkBase + "?contact=" + url.QueryEscape(s.user.ID), nil
}

// ParseContactLink extracts the user id carried by a contact link.
func ParseContactLink(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", invalid("link", err.Error())
	}
	id := u.Query().Get("contact")
	if id == "" {
		return "", invalid("link", "no contact parameter")
	}
	if strings.ContainsFunc(id, badLinkRune) {
		return "", invalid("link", fmt.Sprintf("contact id %q contains spaces or '@'", id))
	}
	return id, nil
}

func badLinkRune(r rune) bool {
	return r == '@' || unicode.IsSpace(r) || unicode.IsControl(r)
}

// AddContactFromLink completes the contact-link handshake: the user behind
// link becomes a contact named name. Linking to yourself is rejected.
func (s *Store) AddContactFromLink(link, name string) (Contact, error) {
	id, err := ParseContactLink(link)
	if err != nil {
		return Contact{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Contact{}, invalid("name", "required")
	}

	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	if user == nil {
		return Contact{}, ErrSignedOut
	}
	if id == user.ID {
		return Contact{}, invalid("link", "cannot add yourself as a contact")
	}

	c := Contact{
		ID:     id,
		Name:   name,
		Email:  "user" + id + "@chat.local",
		Avatar: AvatarURL(name),
		Status: StatusOffline,
	}
	// Load revalidates the whole collection, so only valid contacts may be stored.
	if err := c.validate(); err != nil {
		return Contact{}, invalid("link", err.Error())
	}
	return s.appendContact(c)
}

func (s *Store) appendContact(c Contact) (Contact, error) {
	s.mu.Lock()
	for _, existing := range s.contacts {
		if strings.EqualFold(existing.Email, c.Email) {
			s.mu.Unlock()
			return Contact{}, invalid("email", fmt.Sprintf("contact %q already exists", c.Email))
		}
		if existing.ID == c.ID {
			s.mu.Unlock()
			return Contact{}, invalid("contact", fmt.Sprintf("contact %q already exists", c.ID))
		}
	}
	next := append(slices.Clone(s.contacts), c)
	if err := s.save(persist.KeyContacts, next); err != nil {
		s.mu.Unlock()
		return Contact{}, fmt.Errorf("add contact: %w", err)
	}
	s.contacts = next
	var userID string
	if s.user != nil {
		userID = s.user.ID
	}
	s.mu.Unlock()

	s.logger.Info("contact added", zap.String("contact_id", c.ID))
	s.publish(bus.KindContactAdded, ContactEvent{UserID: userID, Contact: c})
	return c, nil
}

// Contacts returns the contact collection in insertion order.
func (s *Store) Contacts() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts)
}

// Contact returns the contact with id.
func (s *Store) Contact(id string) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}
