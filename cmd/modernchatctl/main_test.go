package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/session"
)

func setupHome(t *testing.T) {
	t.Helper()
	t.Setenv("MODERNCHAT_HOME", t.TempDir())
	t.Setenv("MODERNCHAT_STORAGE_BACKEND", "sqlite")
	t.Setenv("MODERNCHAT_NOTIFICATIONS_BELL", "false")
	t.Chdir(t.TempDir())
}

// execute runs one invocation of the CLI, as a separate process would.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestStatePersistsAcrossInvocations(t *testing.T) {
	setupHome(t)

	mustExecute(t, "signin", "me@example.com", "--username", "Me")
	mustExecute(t, "contacts", "add", "Alice", "alice@example.com", "--online")
	mustExecute(t, "send", "alice", "hello", "there")

	out := mustExecute(t, "--json", "chats", "list")
	var chats []chat.Chat
	if err := json.Unmarshal([]byte(out), &chats); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(chats) != 1 || chats[0].Name != "Alice" || chats[0].LastMessage != "hello there" {
		t.Fatalf("chats = %+v", chats)
	}

	out = mustExecute(t, "chats", "show", "Alice")
	if !strings.Contains(out, "You: hello there") {
		t.Errorf("show output = %q", out)
	}

	out = mustExecute(t, "search", "ali", "HELLO")
	if !strings.Contains(out, "hello there") {
		t.Errorf("search output = %q", out)
	}

	out = mustExecute(t, "whoami")
	if !strings.Contains(out, "me@example.com") {
		t.Errorf("whoami output = %q", out)
	}
}

func TestSignedOutCommandsFail(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "", "link")
	if !errors.Is(err, chat.ErrSignedOut) {
		t.Fatalf("err = %v, want ErrSignedOut", err)
	}
	if got := describe(err); !strings.Contains(got, "signin") {
		t.Errorf("describe() = %q", got)
	}
}

func TestDeleteChatConfirmation(t *testing.T) {
	setupHome(t)
	mustExecute(t, "signin", "me@example.com")
	mustExecute(t, "contacts", "add", "Bob", "bob@example.com")
	mustExecute(t, "chats", "open", "bob@example.com")

	if _, err := execute(t, "n\n", "chats", "delete", "Bob"); !errors.Is(err, errAborted) {
		t.Fatalf("answer n: err = %v, want errAborted", err)
	}
	if out := mustExecute(t, "chats", "list"); !strings.Contains(out, "Bob") {
		t.Fatalf("chat deleted despite refusal: %q", out)
	}

	if _, err := execute(t, "y\n", "chats", "delete", "Bob"); err != nil {
		t.Fatal(err)
	}
	if out := mustExecute(t, "chats", "list"); !strings.Contains(out, "No chats.") {
		t.Errorf("chats after delete = %q", out)
	}
}

func TestExportImport(t *testing.T) {
	setupHome(t)
	mustExecute(t, "signin", "me@example.com")
	mustExecute(t, "contacts", "add", "Carol", "carol@example.com")

	mustExecute(t, "export")
	def := filepath.Join(session.BackupDir(session.DefaultSessionName), session.BackupName(time.Now()))
	if _, err := os.Stat(def); err != nil {
		t.Fatalf("default export file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	mustExecute(t, "export", path)

	mustExecute(t, "contacts", "add", "Dave", "dave@example.com")
	if _, err := execute(t, "", "import", path); !errors.Is(err, errAborted) {
		t.Fatalf("import without answer: err = %v, want errAborted", err)
	}
	mustExecute(t, "import", "--yes", path)

	out := mustExecute(t, "contacts", "list")
	if !strings.Contains(out, "Carol") || strings.Contains(out, "Dave") {
		t.Errorf("contacts after import = %q", out)
	}

	var doc chat.Document
	if err := json.Unmarshal([]byte(mustExecute(t, "export", "-")), &doc); err != nil {
		t.Fatalf("stdout export is not a backup: %v", err)
	}
	if len(doc.Contacts) != 1 {
		t.Errorf("exported contacts = %+v", doc.Contacts)
	}
}

func TestSettingsSet(t *testing.T) {
	setupHome(t)

	mustExecute(t, "settings", "set", "theme", "dark")
	out := mustExecute(t, "settings", "show")
	if !strings.Contains(out, "dark") {
		t.Errorf("settings show = %q", out)
	}
	var verr *chat.ValidationError
	if _, err := execute(t, "", "settings", "set", "fontSize", "big"); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}
