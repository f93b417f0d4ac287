// Package chat holds the in-memory chat and contact state of the local
// user and keeps it in lockstep with the persisted snapshots.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/notify"
	"github.com/matheus3301/modernchat/internal/persist"
)

const (
	newChatPreview   = "No messages yet"
	newChatTimestamp = "now"
	// messageTimeLayout is the en-US hh:mm AM display form.
	messageTimeLayout = "03:04 PM"
)

// Alerter raises message side effects.
type Alerter interface {
	Alert(notify.Alert)
}

// Options configures a Store.
type Options struct {
	Persist *persist.Adapter
	Bus     *bus.Bus
	Alerter Alerter
	Logger  *zap.Logger
	// LinkBase prefixes contact links, e.g. modernchat://contact.
	LinkBase string
	Now      func() time.Time
	NewID    func() string
}

// Store is the single owner of the chat and contact state. Every
// mutation is persisted before it becomes visible; a failed write leaves
// the in-memory state unchanged.
type Store struct {
	mu       sync.Mutex
	persist  *persist.Adapter
	bus      *bus.Bus
	alerter  Alerter
	logger   *zap.Logger
	linkBase string
	now      func() time.Time
	newID    func() string

	user     *User
	contacts []Contact
	chats    []Chat
	settings Settings
	activeID string
}

// NewStore creates an empty Store. Call Load to hydrate it.
func NewStore(opts Options) *Store {
	s := &Store{
		persist:  opts.Persist,
		bus:      opts.Bus,
		alerter:  opts.Alerter,
		logger:   opts.Logger,
		linkBase: opts.LinkBase,
		now:      opts.Now,
		newID:    opts.NewID,
		contacts: []Contact{},
		chats:    []Chat{},
		settings: DefaultSettings(),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newUUID
	}
	if s.linkBase == "" {
		s.linkBase = "modernchat://contact"
	}
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load hydrates the store from the persisted snapshots. Domains that are
// missing start empty; domains that are corrupt fall back to defaults and
// their errors are combined into the returned warning.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var warnings error

	var user User
	s.user = nil
	if found, err := s.persist.Load(persist.KeyCurrentUser, &user); err != nil {
		warnings = multierr.Append(warnings, err)
	} else if found {
		s.user = &user
	}

	var contacts contactList
	s.contacts = []Contact{}
	if found, err := s.persist.Load(persist.KeyContacts, &contacts); err != nil {
		warnings = multierr.Append(warnings, err)
	} else if found && contacts != nil {
		s.contacts = contacts
	}

	var chats chatList
	s.chats = []Chat{}
	if found, err := s.persist.Load(persist.KeyChats, &chats); err != nil {
		warnings = multierr.Append(warnings, err)
	} else if found && chats != nil {
		s.chats = chats
	}

	settings := DefaultSettings()
	if _, err := s.persist.Load(persist.KeySettings, &settings); err != nil {
		warnings = multierr.Append(warnings, err)
		settings = DefaultSettings()
	}
	s.settings = settings
	s.activeID = ""

	s.logger.Info("state loaded",
		zap.Bool("signed_in", s.user != nil),
		zap.Int("contacts", len(s.contacts)),
		zap.Int("chats", len(s.chats)),
		zap.Int("warnings", len(multierr.Errors(warnings))),
	)
	return warnings
}

// Flush writes every snapshot domain. All domains are attempted; the
// current user is only written while signed in.
func (s *Store) Flush() error {
	s.mu.Lock()
	entries := []persist.Entry{
		{Key: persist.KeyContacts, Value: s.contacts},
		{Key: persist.KeyChats, Value: s.chats},
		{Key: persist.KeySettings, Value: s.settings},
	}
	if s.user != nil {
		entries = append(entries,
			persist.Entry{Key: persist.KeyCurrentUser, Value: *s.user},
			persist.Entry{Key: persist.KeyLastActive, Value: s.now().UTC().Format(time.RFC3339)},
		)
	}
	// Hold the lock while encoding so no mutation interleaves.
	err := s.persist.SaveAll(entries)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("flush failed", zap.Error(err))
		s.publish(bus.KindNoticeStorageErr, err)
	}
	return err
}

// SignedIn reports whether a current user exists.
func (s *Store) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Settings returns the current preferences.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings applies fn to a copy of the preferences, validates and
// persists the result.
func (s *Store) UpdateSettings(fn func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	next := s.settings
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return Settings{}, err
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return Settings{}, invalid("settings", err.Error())
	}
	if err := s.save(persist.KeySettings, next); err != nil {
		s.mu.Unlock()
		return Settings{}, err
	}
	s.settings = next
	s.mu.Unlock()

	s.publish(bus.KindSettingsChanged, next)
	return next, nil
}

func (s *Store) publish(kind string, payload any) {
	s.bus.Publish(bus.NewEvent(kind, payload))
}

// save persists one domain and reports failures on the bus.
func (s *Store) save(key string, value any) error {
	if err := s.persist.Save(key, value); err != nil {
		s.publish(bus.KindNoticeStorageErr, err)
		return err
	}
	return nil
}
