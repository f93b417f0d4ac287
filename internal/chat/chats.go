package chat

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/persist"
)

// UpsertChatForContact returns the chat with contact, creating it at the
// front of the collection if it does not exist yet.
func (s *Store) UpsertChatForContact(contact Contact) (Chat, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return Chat{}, ErrSignedOut
	}
	id := ChatID(s.user.ID, contact.ID)
	if i := s.chatIndex(id); i >= 0 {
		c := s.chats[i].clone()
		s.mu.Unlock()
		return c, nil
	}

	c := Chat{
		ID:          id,
		ContactID:   contact.ID,
		Name:        contact.Name,
		Avatar:      contact.Avatar,
		Status:      contact.Status,
		LastMessage: newChatPreview,
		Timestamp:   newChatTimestamp,
		Unread:      0,
		Messages:    []Message{},
	}
	next := make([]Chat, 0, len(s.chats)+1)
	next = append(next, c)
	next = append(next, s.chats...)
	if err := s.save(persist.KeyChats, next); err != nil {
		s.mu.Unlock()
		return Chat{}, fmt.Errorf("create chat: %w", err)
	}
	s.chats = next
	s.mu.Unlock()

	s.logger.Info("chat created", zap.String("chat_id", id), zap.String("contact_id", contact.ID))
	s.publish(bus.KindChatUpserted, ChatEvent{Chat: c.clone(), Created: true})
	return c.clone(), nil
}

// OpenContact starts or reuses the chat with a known contact and makes it
// active.
func (s *Store) OpenContact(contactID string) (Chat, error) {
	contact, ok := s.Contact(contactID)
	if !ok {
		return Chat{}, invalid("contact", fmt.Sprintf("no contact with id %q", contactID))
	}
	c, err := s.UpsertChatForContact(contact)
	if err != nil {
		return Chat{}, err
	}
	return s.SetActiveChat(c.ID)
}

// SetActiveChat points the active chat at id and clears its unread count.
// An unknown id reports ErrChatNotFound and changes nothing.
func (s *Store) SetActiveChat(id string) (Chat, error) {
	s.mu.Lock()
	i := s.chatIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return Chat{}, fmt.Errorf("%w: %s", ErrChatNotFound, id)
	}
	if s.chats[i].Unread != 0 {
		next := s.cloneChats()
		next[i].Unread = 0
		if err := s.save(persist.KeyChats, next); err != nil {
			s.mu.Unlock()
			return Chat{}, fmt.Errorf("open chat: %w", err)
		}
		s.chats = next
	}
	s.activeID = id
	c := s.chats[i].clone()
	s.mu.Unlock()

	s.publish(bus.KindChatActivated, ChatEvent{Chat: c})
	return c, nil
}

// ClearActiveChat drops the active pointer without touching the chat.
func (s *Store) ClearActiveChat() {
	s.mu.Lock()
	s.activeID = ""
	s.mu.Unlock()
}

// DeleteChat removes a chat, clearing the active pointer if it pointed at
// it. The contact survives. Deleting an unknown id is a no-op.
func (s *Store) DeleteChat(id string) error {
	s.mu.Lock()
	i := s.chatIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	next := slices.Delete(s.cloneChats(), i, i+1)
	if err := s.save(persist.KeyChats, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete chat: %w", err)
	}
	s.chats = next
	wasActive := s.activeID == id
	if wasActive {
		s.activeID = ""
	}
	s.mu.Unlock()

	s.logger.Info("chat deleted", zap.String("chat_id", id), zap.Bool("was_active", wasActive))
	s.publish(bus.KindChatDeleted, DeleteEvent{ChatID: id, WasActive: wasActive})
	return nil
}

// Chats returns the chat collection, most recent first.
func (s *Store) Chats() []Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneChats()
}

// Chat returns the chat with id.
func (s *Store) Chat(id string) (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.chatIndex(id); i >= 0 {
		return s.chats[i].clone(), true
	}
	return Chat{}, false
}

// ActiveChat returns the chat the active pointer refers to.
func (s *Store) ActiveChat() (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.chatIndex(s.activeID); i >= 0 {
		return s.chats[i].clone(), true
	}
	return Chat{}, false
}

// ActiveChatID returns the active chat id, or "" when none is active.
func (s *Store) ActiveChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// FilterChats returns chats whose name or last message contains term,
// ignoring case. An empty term matches every chat.
func (s *Store) FilterChats(term string) []Chat {
	term = strings.ToLower(strings.TrimSpace(term))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Chat{}
	for _, c := range s.chats {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.LastMessage), term) {
			out = append(out, c.clone())
		}
	}
	return out
}

// SearchActiveChat returns the active chat's messages containing term,
// ignoring case.
func (s *Store) SearchActiveChat(term string) ([]Message, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.chatIndex(s.activeID)
	if i < 0 {
		return nil, invalid("chat", "no active chat")
	}
	out := []Message{}
	for _, m := range s.chats[i].Messages {
		if strings.Contains(strings.ToLower(m.Text), term) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) chatIndex(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.chats, func(c Chat) bool { return c.ID == id })
}

func (s *Store) cloneChats() []Chat {
	out := make([]Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.clone()
	}
	return out
}
