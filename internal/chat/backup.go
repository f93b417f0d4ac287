package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/persist"
)

const exportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the portable backup of the whole local state.
type Document struct {
	Timestamp   string    `json:"timestamp"`
	CurrentUser *User     `json:"currentUser"`
	Contacts    []Contact `json:"contacts"`
	Chats       []Chat    `json:"chats"`
	Settings    Settings  `json:"settings"`
}

// ExportAll captures the current state verbatim.
func (s *Store) ExportAll() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := Document{
		Timestamp: s.now().UTC().Format(exportTimeLayout),
		Contacts:  slices.Clone(s.contacts),
		Chats:     s.cloneChats(),
		Settings:  s.settings,
	}
	if s.user != nil {
		u := *s.user
		doc.CurrentUser = &u
	}
	return doc
}

// WriteExport writes ExportAll as JSON indented by two spaces.
func (s *Store) WriteExport(w io.Writer) error {
	data, err := json.MarshalIndent(s.ExportAll(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ExportFile writes the backup to path, creating its directory.
func (s *Store) ExportFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return s.WriteExport(f)
}

// ImportFile reads a backup from path and imports it.
func (s *Store) ImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	return s.ImportAll(data)
}

// ImportAll replaces contacts, chats and settings with the ones in data.
// The whole document is checked before anything is replaced; a bad
// document reports a *FormatError. The document's currentUser is ignored.
func (s *Store) ImportAll(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FormatError{Reason: "malformed JSON", Err: err}
	}
	for _, key := range []string{"contacts", "chats", "settings"} {
		if v, ok := raw[key]; !ok || string(v) == "null" {
			return &FormatError{Reason: "missing " + key}
		}
	}

	var contacts contactList
	if err := json.Unmarshal(raw["contacts"], &contacts); err != nil {
		return &FormatError{Reason: "contacts", Err: err}
	}
	if err := contacts.Validate(); err != nil {
		return &FormatError{Reason: "contacts", Err: err}
	}
	var chats chatList
	if err := json.Unmarshal(raw["chats"], &chats); err != nil {
		return &FormatError{Reason: "chats", Err: err}
	}
	if err := chats.Validate(); err != nil {
		return &FormatError{Reason: "chats", Err: err}
	}
	settings := DefaultSettings()
	if err := json.Unmarshal(raw["settings"], &settings); err != nil {
		return &FormatError{Reason: "settings", Err: err}
	}
	if err := settings.Validate(); err != nil {
		return &FormatError{Reason: "settings", Err: err}
	}
	if contacts == nil {
		contacts = contactList{}
	}
	if chats == nil {
		chats = chatList{}
	}

	// Each domain is committed only if its own write succeeded, so memory
	// never runs ahead of storage.
	s.mu.Lock()
	var errs error
	if err := s.save(persist.KeyContacts, contacts); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		s.contacts = contacts
	}
	if err := s.save(persist.KeyChats, chats); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		s.chats = chats
	}
	if err := s.save(persist.KeySettings, settings); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		s.settings = settings
	}
	if s.chatIndex(s.activeID) < 0 {
		s.activeID = ""
	}
	s.mu.Unlock()

	if errs != nil {
		return fmt.Errorf("import: %w", errs)
	}
	s.logger.Info("state imported", zap.Int("contacts", len(contacts)), zap.Int("chats", len(chats)))
	s.publish(bus.KindStateImported, nil)
	return nil
}
