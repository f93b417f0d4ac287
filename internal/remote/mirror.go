package remote

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/chat"
)

// Receiver accepts messages written by other users.
type Receiver interface {
	ReceiveMessage(chatID, text string) (chat.Message, error)
	User() (chat.User, bool)
}

// WireMessage is the shape pushed to chats/{chatId}/messages.
type WireMessage struct {
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
	Sent      bool   `json:"sent"`
}

// Mirror copies local chat activity into a Service and feeds messages
// from other users back into the Receiver.
type Mirror struct {
	svc    Service
	bus    *bus.Bus
	recv   Receiver
	logger *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	watches map[string]func()
	seen    map[string]bool
}

// NewMirror creates a Mirror. Call Start to begin mirroring.
func NewMirror(svc Service, b *bus.Bus, recv Receiver, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		svc:     svc,
		bus:     b,
		recv:    recv,
		logger:  logger,
		watches: map[string]func(){},
		seen:    map[string]bool{},
	}
}

// Start subscribes to local chat, contact and message events.
func (m *Mirror) Start(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	ch, unsub := m.bus.SubscribeMany(256, "chat.", "contact.", "message.")

	go func() {
		defer close(m.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				m.handleEvent(evt)
			case <-m.ctx.Done():
				return
			}
		}
	}()
}

// Stop ends mirroring and every chat watch.
func (m *Mirror) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.mu.Lock()
	for id, stop := range m.watches {
		stop()
		delete(m.watches, id)
	}
	m.mu.Unlock()
}

func (m *Mirror) handleEvent(evt bus.Event) {
	switch p := evt.Payload.(type) {
	case chat.ChatEvent:
		if p.Created {
			m.publishChat(p.Chat)
		}
		m.Watch(p.Chat.ID)
	case chat.DeleteEvent:
		m.Unwatch(p.ChatID)
	case chat.ContactEvent:
		m.publishContact(p)
	case chat.MessageEvent:
		if !p.Remote && p.Message.Sent {
			m.publishMessage(p)
		}
	}
}

func (m *Mirror) publishChat(c chat.Chat) {
	err := m.svc.Set(m.ctx, Join("chats", c.ID), map[string]any{
		"name":      c.Name,
		"contactId": c.ContactID,
	})
	if err != nil {
		m.logger.Warn("mirror chat failed", zap.String("chat_id", c.ID), zap.Error(err))
	}
}

func (m *Mirror) publishContact(e chat.ContactEvent) {
	if e.UserID == "" {
		return
	}
	if err := m.svc.Set(m.ctx, Join("users", e.UserID, "contacts", e.Contact.ID), e.Contact); err != nil {
		m.logger.Warn("mirror contact failed", zap.String("contact_id", e.Contact.ID), zap.Error(err))
	}
}

func (m *Mirror) publishMessage(e chat.MessageEvent) {
	key, err := m.svc.Push(m.ctx, Join("chats", e.ChatID, "messages"), WireMessage{
		Text:      e.Message.Text,
		UserID:    e.UserID,
		Timestamp: e.Message.Timestamp,
		Sent:      true,
	})
	if err != nil {
		m.logger.Warn("mirror message failed", zap.String("chat_id", e.ChatID), zap.Error(err))
		return
	}
	m.mu.Lock()
	m.seen[key] = true
	m.mu.Unlock()
}

// Watch delivers new messages from other users in chat id. Messages
// already present when the watch starts are treated as delivered.
// Watching an already watched chat is a no-op.
func (m *Mirror) Watch(id string) {
	m.mu.Lock()
	if _, ok := m.watches[id]; ok || m.ctx == nil {
		m.mu.Unlock()
		return
	}
	m.watches[id] = func() {}
	m.mu.Unlock()

	baseline := true
	stop, err := m.svc.Subscribe(m.ctx, Join("chats", id, "messages"), func(value any) {
		m.deliver(id, value, baseline)
		baseline = false
	})
	if err != nil {
		m.logger.Warn("watch chat failed", zap.String("chat_id", id), zap.Error(err))
		m.mu.Lock()
		delete(m.watches, id)
		m.mu.Unlock()
		return
	}
	m.mu.Lock()
	m.watches[id] = stop
	m.mu.Unlock()
}

// Unwatch stops delivering messages for chat id.
func (m *Mirror) Unwatch(id string) {
	m.mu.Lock()
	stop, ok := m.watches[id]
	delete(m.watches, id)
	m.mu.Unlock()
	if ok {
		stop()
	}
}

func (m *Mirror) deliver(chatID string, value any, baseline bool) {
	msgs, ok := value.(map[string]any)
	if !ok {
		return
	}
	self, _ := m.recv.User()

	// Push keys are time ordered, so key order is arrival order.
	keys := make([]string, 0, len(msgs))
	for k := range msgs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		m.mu.Lock()
		dup := m.seen[k]
		m.seen[k] = true
		m.mu.Unlock()
		if dup || baseline {
			continue
		}
		raw, ok := msgs[k].(map[string]any)
		if !ok {
			continue
		}
		text, _ := raw["text"].(string)
		author, _ := raw["userId"].(string)
		if author == self.ID {
			continue
		}
		if _, err := m.recv.ReceiveMessage(chatID, text); err != nil {
			m.logger.Warn("deliver remote message failed",
				zap.String("chat_id", chatID),
				zap.String("key", k),
				zap.Error(err),
			)
		}
	}
}
