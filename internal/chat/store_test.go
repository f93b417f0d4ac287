package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/notify"
	"github.com/matheus3301/modernchat/internal/persist"
	"github.com/matheus3301/modernchat/internal/store"
)

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (r *recordingAlerter) Alert(a notify.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

// flakyBackend fails every Set while fail is true.
type flakyBackend struct {
	*store.Memory
	fail bool
}

func (f *flakyBackend) Set(key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

type fixture struct {
	store   *Store
	backend *flakyBackend
	alerter *recordingAlerter
	bus     *bus.Bus
}

var testClock = time.Date(2024, 5, 1, 14, 7, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fb := &flakyBackend{Memory: store.NewMemory()}
	f := &fixture{backend: fb, alerter: &recordingAlerter{}, bus: bus.New()}
	n := 0
	f.store = NewStore(Options{
		Persist:  persist.New(fb, 0, nil),
		Bus:      f.bus,
		Alerter:  f.alerter,
		LinkBase: "modernchat://contact",
		Now:      func() time.Time { return testClock },
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
	})
	return f
}

func signedIn(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	if _, err := f.store.SignIn("me@example.com", "Me"); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) contact(t *testing.T, name, email string) Contact {
	t.Helper()
	c, err := f.store.AddContact(name, email, "")
	if err != nil {
		t.Fatalf("AddContact(%s) error = %v", email, err)
	}
	return c
}

func (f *fixture) openChat(t *testing.T) Chat {
	t.Helper()
	c := f.contact(t, "Alice", "alice@example.com")
	chat, err := f.store.OpenContact(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	return chat
}

func (f *fixture) storedChats(t *testing.T) []Chat {
	t.Helper()
	data, err := f.backend.Get(persist.KeyChats)
	if err != nil {
		t.Fatalf("chats not persisted: %v", err)
	}
	var out []Chat
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestUpsertChatForContactIdempotent(t *testing.T) {
	f := signedIn(t)
	c := f.contact(t, "Alice", "alice@example.com")

	first, err := f.store.UpsertChatForContact(c)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.store.UpsertChatForContact(c)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("chat ids differ: %q vs %q", first.ID, second.ID)
	}
	if n := len(f.store.Chats()); n != 1 {
		t.Errorf("len(Chats()) = %d, want 1", n)
	}
	if first.LastMessage != "No messages yet" || first.Timestamp != "now" || first.Unread != 0 {
		t.Errorf("new chat summary = %q/%q/%d", first.LastMessage, first.Timestamp, first.Unread)
	}
	if first.Messages == nil || len(first.Messages) != 0 {
		t.Errorf("new chat messages = %v, want empty", first.Messages)
	}
}

func TestUpsertInsertsAtFront(t *testing.T) {
	f := signedIn(t)
	a := f.contact(t, "Alice", "alice@example.com")
	b := f.contact(t, "Bob", "bob@example.com")
	_, _ = f.store.UpsertChatForContact(a)
	_, _ = f.store.UpsertChatForContact(b)

	chats := f.store.Chats()
	if chats[0].Name != "Bob" || chats[1].Name != "Alice" {
		t.Errorf("order = [%s %s], want [Bob Alice]", chats[0].Name, chats[1].Name)
	}
	if got := f.storedChats(t); len(got) != 2 {
		t.Errorf("persisted %d chats, want 2", len(got))
	}
}

func TestUpsertRequiresSignIn(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.UpsertChatForContact(Contact{ID: "c"}); !errors.Is(err, ErrSignedOut) {
		t.Errorf("error = %v, want ErrSignedOut", err)
	}
}

func TestSetActiveChat(t *testing.T) {
	f := signedIn(t)
	chat := f.openChat(t)

	if got := f.store.ActiveChatID(); got != chat.ID {
		t.Errorf("ActiveChatID() = %q, want %q", got, chat.ID)
	}
	_, err := f.store.SetActiveChat("missing")
	if !errors.Is(err, ErrChatNotFound) {
		t.Errorf("SetActiveChat(missing) error = %v, want ErrChatNotFound", err)
	}
	if got := f.store.ActiveChatID(); got != chat.ID {
		t.Errorf("active pointer changed to %q after failed SetActiveChat", got)
	}
}

func TestDeleteChat(t *testing.T) {
	tests := []struct {
		name       string
		deleteIdx  int
		wantActive bool
	}{
		{"active chat clears pointer", 0, false},
		{"other chat keeps pointer", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := signedIn(t)
			a := f.contact(t, "Alice", "alice@example.com")
			b := f.contact(t, "Bob", "bob@example.com")
			active, _ := f.store.OpenContact(a.ID)
			other, _ := f.store.UpsertChatForContact(b)
			ids := []string{active.ID, other.ID}

			events, unsub := f.bus.Subscribe("chat.deleted", 1)
			defer unsub()

			if err := f.store.DeleteChat(ids[tt.deleteIdx]); err != nil {
				t.Fatal(err)
			}
			_, hasActive := f.store.ActiveChat()
			if hasActive != tt.wantActive {
				t.Errorf("has active chat = %v, want %v", hasActive, tt.wantActive)
			}
			evt := (<-events).Payload.(DeleteEvent)
			if evt.WasActive == tt.wantActive {
				t.Errorf("DeleteEvent.WasActive = %v", evt.WasActive)
			}
			if len(f.store.Contacts()) != 2 {
				t.Error("deleting a chat removed its contact")
			}
			if len(f.storedChats(t)) != 1 {
				t.Error("deletion not persisted")
			}
		})
	}
}

func TestDeleteChatUnknownIsNoop(t *testing.T) {
	f := signedIn(t)
	chat := f.openChat(t)
	if err := f.store.DeleteChat("nope"); err != nil {
		t.Fatal(err)
	}
	if len(f.store.Chats()) != 1 || f.store.ActiveChatID() != chat.ID {
		t.Error("DeleteChat(unknown) changed state")
	}
}

func TestAddContact(t *testing.T) {
	tests := []struct {
		name      string
		cname     string
		email     string
		wantField string
	}{
		{"valid", "Carol", "carol@example.com", ""},
		{"not an email", "Carol", "not-an-email", "email"},
		{"empty name", "  ", "carol@example.com", "name"},
		{"empty email", "Carol", "", "email"},
		{"space in email", "Carol", "car ol@example.com", "email"},
		{"duplicate", "Alicia", "alice@example.com", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.contact(t, "Alice", "alice@example.com")

			c, err := f.store.AddContact(tt.cname, tt.email, "")
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("AddContact() error = %v", err)
				}
				if n := len(f.store.Contacts()); n != 2 {
					t.Errorf("contacts = %d, want 2", n)
				}
				if c.Status != StatusOffline {
					t.Errorf("Status = %q, want offline", c.Status)
				}
				want := "https://ui-avatars.com/api/?name=carol%40example.com&background=007bff&color=fff&size=128"
				if c.Avatar != want {
					t.Errorf("Avatar = %q, want %q", c.Avatar, want)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Fatalf("AddContact() error = %v, want ValidationError on %s", err, tt.wantField)
			}
			if n := len(f.store.Contacts()); n != 1 {
				t.Errorf("contacts = %d after rejection, want 1", n)
			}
		})
	}
}

func TestContactLinkHandshake(t *testing.T) {
	f := signedIn(t)
	link, err := f.store.ContactLink()
	if err != nil {
		t.Fatal(err)
	}
	if link != "modernchat://contact?contact=id1" {
		t.Errorf("ContactLink() = %q", link)
	}
	if _, err := f.store.AddContactFromLink(link, "Me again"); err == nil {
		t.Error("adding own link should fail")
	}

	c, err := f.store.AddContactFromLink("modernchat://contact?contact=peer42", "Peer")
	if err != nil {
		t.Fatalf("AddContactFromLink() error = %v", err)
	}
	if c.ID != "peer42" || c.Email != "userpeer42@chat.local" || c.Status != StatusOffline {
		t.Errorf("contact = %+v", c)
	}
	if _, err := f.store.AddContactFromLink("modernchat://contact?contact=peer42", "Peer"); err == nil {
		t.Error("duplicate link contact should fail")
	}
	if _, err := f.store.AddContactFromLink("modernchat://contact", "X"); err == nil {
		t.Error("link without contact parameter should fail")
	}
}

func TestContactLinkRejectsUnstorableIDs(t *testing.T) {
	for _, link := range []string{
		"modernchat://contact?contact=a%20b",
		"modernchat://contact?contact=x%40y",
		"modernchat://contact?contact=tab%09id",
	} {
		t.Run(link, func(t *testing.T) {
			f := signedIn(t)
			f.contact(t, "Alice", "alice@example.com")
			var ve *ValidationError
			if _, err := f.store.AddContactFromLink(link, "Odd"); !errors.As(err, &ve) {
				t.Fatalf("AddContactFromLink() error = %v, want ValidationError", err)
			}
			if n := len(f.store.Contacts()); n != 1 {
				t.Errorf("contacts = %d after rejection, want 1", n)
			}
		})
	}
}

func TestLinkContactSurvivesReloadAndImport(t *testing.T) {
	f := signedIn(t)
	f.contact(t, "Alice", "alice@example.com")
	if _, err := f.store.AddContactFromLink("modernchat://contact?contact=peer-42.x", "Peer"); err != nil {
		t.Fatalf("AddContactFromLink() error = %v", err)
	}
	want := f.store.Contacts()

	reloaded := NewStore(Options{Persist: persist.New(f.backend, 0, nil)})
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Contacts(); !reflect.DeepEqual(got, want) {
		t.Errorf("contacts after Load = %+v, want %+v", got, want)
	}

	var buf bytes.Buffer
	if err := f.store.WriteExport(&buf); err != nil {
		t.Fatal(err)
	}
	if err := f.store.ImportAll(buf.Bytes()); err != nil {
		t.Fatalf("ImportAll() error = %v", err)
	}
	if got := f.store.Contacts(); !reflect.DeepEqual(got, want) {
		t.Errorf("contacts after import = %+v, want %+v", got, want)
	}
}

func TestAppendMessageMirrorsTail(t *testing.T) {
	f := signedIn(t)
	chat := f.openChat(t)

	for _, text := range []string{"hello", "  second  ", "third"} {
		if _, err := f.store.AppendMessage(text, true); err != nil {
			t.Fatalf("AppendMessage(%q) error = %v", text, err)
		}
		got, _ := f.store.Chat(chat.ID)
		tail := got.Messages[len(got.Messages)-1]
		if got.LastMessage != tail.Text || got.Timestamp != tail.Timestamp {
			t.Errorf("summary %q/%q != tail %q/%q", got.LastMessage, got.Timestamp, tail.Text, tail.Timestamp)
		}
	}

	got, _ := f.store.Chat(chat.ID)
	texts := []string{}
	for _, m := range got.Messages {
		texts = append(texts, m.Text)
	}
	if !reflect.DeepEqual(texts, []string{"hello", "second", "third"}) {
		t.Errorf("messages = %v", texts)
	}
	if got.Timestamp != "02:07 PM" {
		t.Errorf("Timestamp = %q, want 02:07 PM", got.Timestamp)
	}
	if stored := f.storedChats(t); len(stored[0].Messages) != 3 {
		t.Errorf("persisted %d messages, want 3", len(stored[0].Messages))
	}
}

func TestAppendMessageRejects(t *testing.T) {
	f := signedIn(t)
	var ve *ValidationError
	if _, err := f.store.AppendMessage("hi", true); !errors.As(err, &ve) {
		t.Errorf("no active chat: error = %v, want ValidationError", err)
	}
	f.openChat(t)
	if _, err := f.store.AppendMessage("   ", true); !errors.As(err, &ve) {
		t.Errorf("blank text: error = %v, want ValidationError", err)
	}
	chat, _ := f.store.ActiveChat()
	if len(chat.Messages) != 0 {
		t.Errorf("rejected append left %d messages", len(chat.Messages))
	}
}

func TestAppendMessageRacingDeleteChat(t *testing.T) {
	for range 50 {
		f := signedIn(t)
		chat := f.openChat(t)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.store.DeleteChat(chat.ID)
		}()
		_, err := f.store.AppendMessage("hi", true)
		wg.Wait()
		var ve *ValidationError
		if err != nil && !errors.As(err, &ve) {
			t.Fatalf("AppendMessage() error = %v, want nil or ValidationError", err)
		}
	}
}

func TestAppendMessageAlerts(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	if _, err := f.store.UpdateSettings(func(s *Settings) error {
		s.SoundEffects = false
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.store.AppendMessage("hi", true); err != nil {
		t.Fatal(err)
	}
	if len(f.alerter.alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(f.alerter.alerts))
	}
	a := f.alerter.alerts[0]
	if a.Sound || !a.Desktop || a.Title != "Message sent" || a.Body != "Your message has been delivered" {
		t.Errorf("alert = %+v", a)
	}
}

func TestReceiveMessageUnread(t *testing.T) {
	f := signedIn(t)
	a := f.contact(t, "Alice", "alice@example.com")
	b := f.contact(t, "Bob", "bob@example.com")
	active, _ := f.store.OpenContact(a.ID)
	other, _ := f.store.UpsertChatForContact(b)

	if _, err := f.store.ReceiveMessage(other.ID, "ping"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.store.ReceiveMessage(active.ID, "pong"); err != nil {
		t.Fatal(err)
	}
	got, _ := f.store.Chat(other.ID)
	if got.Unread != 1 || got.Messages[0].Sent {
		t.Errorf("inactive chat unread = %d sent = %v", got.Unread, got.Messages[0].Sent)
	}
	got, _ = f.store.Chat(active.ID)
	if got.Unread != 0 {
		t.Errorf("active chat unread = %d, want 0", got.Unread)
	}

	opened, err := f.store.SetActiveChat(other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if opened.Unread != 0 {
		t.Errorf("unread after open = %d, want 0", opened.Unread)
	}
	if _, err := f.store.ReceiveMessage("missing", "x"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("ReceiveMessage(missing) error = %v", err)
	}
	if _, err := f.store.ReceiveMessage("", "x"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("ReceiveMessage(\"\") error = %v, want ErrChatNotFound", err)
	}
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	f := signedIn(t)
	chat := f.openChat(t)
	before := f.store.ExportAll()
	f.backend.fail = true

	var se *persist.StorageError
	if _, err := f.store.AppendMessage("lost", true); !errors.As(err, &se) {
		t.Errorf("AppendMessage error = %v, want StorageError", err)
	}
	if _, err := f.store.AddContact("Bob", "bob@example.com", ""); !errors.As(err, &se) {
		t.Errorf("AddContact error = %v, want StorageError", err)
	}
	if err := f.store.DeleteChat(chat.ID); !errors.As(err, &se) {
		t.Errorf("DeleteChat error = %v, want StorageError", err)
	}
	if len(f.alerter.alerts) != 0 {
		t.Errorf("alerts raised for a failed append: %d", len(f.alerter.alerts))
	}

	after := f.store.ExportAll()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after failed writes:\nbefore %+v\nafter  %+v", before, after)
	}
	if f.store.ActiveChatID() != chat.ID {
		t.Error("active pointer changed after failed delete")
	}
}

func TestFilterAndSearch(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	_, _ = f.store.AppendMessage("Lunch tomorrow?", true)
	_, _ = f.store.AppendMessage("sure, LUNCH at noon", false)
	_, _ = f.store.AppendMessage("bye", true)

	if got := f.store.FilterChats("ALI"); len(got) != 1 {
		t.Errorf("FilterChats(ALI) = %d chats, want 1", len(got))
	}
	if got := f.store.FilterChats("bye"); len(got) != 1 {
		t.Errorf("FilterChats(bye) = %d chats, want 1 (last message match)", len(got))
	}
	if got := f.store.FilterChats("zzz"); len(got) != 0 {
		t.Errorf("FilterChats(zzz) = %d chats, want 0", len(got))
	}
	msgs, err := f.store.SearchActiveChat("lunch")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Errorf("SearchActiveChat(lunch) = %d, want 2", len(msgs))
	}
}

func TestLoadRestoresState(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	_, _ = f.store.AppendMessage("persist me", true)
	_, _ = f.store.UpdateSettings(func(s *Settings) error { return s.Set("theme", "dark") })

	reloaded := NewStore(Options{Persist: persist.New(f.backend, 0, nil)})
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reloaded.SignedIn() {
		t.Error("user not restored")
	}
	if !reflect.DeepEqual(reloaded.Chats(), f.store.Chats()) {
		t.Error("chats differ after reload")
	}
	if !reflect.DeepEqual(reloaded.Contacts(), f.store.Contacts()) {
		t.Error("contacts differ after reload")
	}
	if reloaded.Settings().Theme != ThemeDark {
		t.Errorf("Theme = %q, want dark", reloaded.Settings().Theme)
	}
	if reloaded.ActiveChatID() != "" {
		t.Error("active pointer restored; want none after reload")
	}
}

func TestLoadFallsBackOnCorruption(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Set(persist.KeyContacts, []byte("{broken"))
	_ = mem.Set(persist.KeyChats, []byte(`[{"id":"","name":"x"}]`))
	_ = mem.Set(persist.KeySettings, []byte(`{"theme":"dark"}`))

	s := NewStore(Options{Persist: persist.New(mem, 0, nil)})
	err := s.Load()
	if err == nil {
		t.Fatal("Load() returned no warning for corrupt domains")
	}
	if len(s.Contacts()) != 0 || len(s.Chats()) != 0 {
		t.Error("corrupt domains not reset to empty")
	}
	got := s.Settings()
	want := DefaultSettings()
	want.Theme = ThemeDark
	if got != want {
		t.Errorf("Settings() = %+v, want defaults merged with theme=dark", got)
	}
}

func TestExportImportIdentity(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	_, _ = f.store.AppendMessage("hello", true)
	before := f.store.ExportAll()

	var buf bytes.Buffer
	if err := f.store.WriteExport(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"timestamp\": \"2024-05-01T14:07:00.000Z\"") {
		t.Errorf("export not two-space indented with ISO timestamp:\n%s", buf.String())
	}
	if err := f.store.ImportAll(buf.Bytes()); err != nil {
		t.Fatalf("ImportAll() error = %v", err)
	}
	after := f.store.ExportAll()
	if !reflect.DeepEqual(before.Contacts, after.Contacts) ||
		!reflect.DeepEqual(before.Chats, after.Chats) ||
		before.Settings != after.Settings {
		t.Error("export then import changed state")
	}
}

func TestExportImportFile(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	_, _ = f.store.AppendMessage("kept", true)
	path := filepath.Join(t.TempDir(), "backups", "b.json")

	if err := f.store.ExportFile(path); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}
	want := f.store.Chats()
	if err := f.store.DeleteChat(want[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := f.store.ImportFile(path); err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if !reflect.DeepEqual(f.store.Chats(), want) {
		t.Errorf("chats after import = %+v, want %+v", f.store.Chats(), want)
	}
	if err := f.store.ImportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportFile() of a missing file succeeded")
	}
}

func TestImportRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing chats", `{"contacts":[],"settings":{}}`},
		{"null settings", `{"contacts":[],"chats":[],"settings":null}`},
		{"malformed", `{"contacts":`},
		{"bad contact", `{"contacts":[{"id":"1","name":"A","email":"nope","status":"offline"}],"chats":[],"settings":{}}`},
		{"bad theme", `{"contacts":[],"chats":[],"settings":{"theme":"neon"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := signedIn(t)
			f.openChat(t)
			before := f.store.Chats()

			err := f.store.ImportAll([]byte(tt.doc))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("ImportAll() error = %v, want FormatError", err)
			}
			if !reflect.DeepEqual(before, f.store.Chats()) {
				t.Error("chats changed after rejected import")
			}
		})
	}
}

func TestImportReplacesAndClearsActive(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	doc := `{"timestamp":"x","currentUser":{"id":"other"},"contacts":[],"chats":[],"settings":{"fontSize":20}}`
	if err := f.store.ImportAll([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if len(f.store.Chats()) != 0 || len(f.store.Contacts()) != 0 {
		t.Error("import merged instead of replacing")
	}
	if f.store.ActiveChatID() != "" {
		t.Error("active pointer survived import of a document without that chat")
	}
	if u, _ := f.store.User(); u.ID != "id1" {
		t.Errorf("currentUser imported: %q", u.ID)
	}
	if s := f.store.Settings(); s.FontSize != 20 || s.Theme != ThemeLight {
		t.Errorf("settings = %+v, want defaults with fontSize 20", s)
	}
}

func TestAccountLifecycle(t *testing.T) {
	f := newFixture(t)
	u, err := f.store.SignIn("jane.doe@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "jane.doe" {
		t.Errorf("Username = %q, want jane.doe", u.Username)
	}
	again, _ := f.store.SignIn("jane.doe@example.com", "")
	if again.ID != u.ID {
		t.Error("signing in again created a new user")
	}

	p, err := f.store.UpdateProfile("Jane", "hi there", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Avatar != AvatarURL("Jane") {
		t.Errorf("Avatar = %q", p.Avatar)
	}
	loaded, err := f.store.Profile()
	if err != nil || loaded != p {
		t.Errorf("Profile() = %+v, %v; want %+v", loaded, err, p)
	}
	if _, err := f.backend.Get(persist.ProfileKey(u.ID)); err != nil {
		t.Errorf("profile not stored under user_%s: %v", u.ID, err)
	}

	f.contact(t, "Alice", "alice@example.com")
	if err := f.store.SignOut(); err != nil {
		t.Fatal(err)
	}
	if f.store.SignedIn() {
		t.Error("still signed in after SignOut")
	}
	if _, err := f.backend.Get(persist.KeyCurrentUser); !errors.Is(err, store.ErrNotFound) {
		t.Error("currentUser still stored after SignOut")
	}
	if len(f.store.Contacts()) != 1 {
		t.Error("SignOut dropped contacts")
	}

	if err := f.store.DeleteAccount(); err != nil {
		t.Fatal(err)
	}
	if len(f.store.Contacts()) != 0 {
		t.Error("DeleteAccount kept contacts")
	}
	if n, _ := f.backend.Usage(); n != 0 {
		t.Errorf("storage holds %d bytes after DeleteAccount", n)
	}
}

func TestSignInRejectsBadEmail(t *testing.T) {
	f := newFixture(t)
	var ve *ValidationError
	if _, err := f.store.SignIn("nope", "x"); !errors.As(err, &ve) {
		t.Errorf("SignIn(nope) error = %v, want ValidationError", err)
	}
}

func TestFlush(t *testing.T) {
	f := signedIn(t)
	f.openChat(t)
	if err := f.store.Flush(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{persist.KeyContacts, persist.KeyChats, persist.KeySettings, persist.KeyCurrentUser, persist.KeyLastActive} {
		if _, err := f.backend.Get(k); err != nil {
			t.Errorf("%s not flushed: %v", k, err)
		}
	}

	f.backend.fail = true
	if err := f.store.Flush(); err == nil {
		t.Error("Flush() error = nil with failing backend")
	}
}
