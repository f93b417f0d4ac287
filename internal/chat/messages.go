package chat

import (
	"fmt"
	"strings"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/notify"
	"github.com/matheus3301/modernchat/internal/persist"
)

// AppendMessage adds a message to the active chat. Empty text or no
// active chat is rejected with a ValidationError.
func (s *Store) AppendMessage(text string, sent bool) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, invalid("text", "message is empty")
	}
	return s.appendMessage(activeChat, text, sent, false)
}

// ReceiveMessage adds a message written by the contact of chat id. The
// unread count grows unless the chat is active.
func (s *Store) ReceiveMessage(id, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, invalid("text", "message is empty")
	}
	if id == activeChat {
		return Message{}, fmt.Errorf("%w: empty id", ErrChatNotFound)
	}
	return s.appendMessage(id, text, false, true)
}

// activeChat tells appendMessage to resolve the active pointer under the
// same lock that appends.
const activeChat = ""

// appendMessage is the single path by which messages enter a chat. The
// chat's summary fields always mirror the appended tail.
func (s *Store) appendMessage(id, text string, sent, remote bool) (Message, error) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if id == activeChat {
		if s.activeID == "" {
			s.mu.Unlock()
			return Message{}, invalid("chat", "no active chat")
		}
		id = s.activeID
	}
	i := s.chatIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrChatNotFound, id)
	}
	msg := Message{
		Text:      text,
		Timestamp: s.now().Format(messageTimeLayout),
		Sent:      sent,
	}
	next := s.cloneChats()
	c := &next[i]
	c.Messages = append(c.Messages, msg)
	c.LastMessage = msg.Text
	c.Timestamp = msg.Timestamp
	if remote && id != s.activeID {
		c.Unread++
	}
	if err := s.save(persist.KeyChats, next); err != nil {
		s.mu.Unlock()
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	s.chats = next
	evt := MessageEvent{ChatID: id, ContactID: c.ContactID, Message: msg, Remote: remote}
	if s.user != nil {
		evt.UserID = s.user.ID
	}
	alert := s.alertFor(*c, msg)
	s.mu.Unlock()

	s.publish(bus.KindMessageAppended, evt)
	if s.alerter != nil {
		s.alerter.Alert(alert)
	}
	return msg, nil
}

func (s *Store) alertFor(c Chat, msg Message) notify.Alert {
	a := notify.Alert{
		Sound:   s.settings.SoundEffects,
		Desktop: s.settings.DesktopNotifications,
	}
	if msg.Sent {
		a.Title = "Message sent"
		a.Body = "Your message has been delivered"
	} else {
		a.Title = "New message from " + c.Name
		a.Body = msg.Text
	}
	return a
}
