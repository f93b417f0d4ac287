package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHandleEventPageShadowsGlobal(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'd', Description: "Global", Handler: func() { got = "global" }})
	r.AddView("chats", &Action{Key: tcell.KeyRune, Rune: 'd', Description: "Delete", Handler: func() { got = "chats" }})

	ev := tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone)
	if !r.HandleEvent("chats", ev) || got != "chats" {
		t.Errorf("chats page: handled by %q, want chats", got)
	}
	if !r.HandleEvent("contacts", ev) || got != "global" {
		t.Errorf("contacts page: handled by %q, want global", got)
	}
	if r.HandleEvent("contacts", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("unbound key was handled")
	}
}

func TestHintsOrder(t *testing.T) {
	r := NewRegistry()
	noop := func() {}
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Handler: noop})
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'x', Description: "Secret", Handler: noop, Hidden: true})
	r.AddView("thread", &Action{Key: tcell.KeyRune, Rune: 'i', Description: "Compose", Handler: noop})
	r.AddView("thread", &Action{Key: tcell.KeyEscape, Description: "Back", Handler: noop})

	hints := r.Hints("thread")
	want := []string{"i", "Esc", "?"}
	if len(hints) != len(want) {
		t.Fatalf("got %d hints, want %d: %+v", len(hints), len(want), hints)
	}
	for i, k := range want {
		if hints[i].Key != k {
			t.Errorf("hint %d key = %q, want %q", i, hints[i].Key, k)
		}
	}
}

func TestMatchesSpecialKey(t *testing.T) {
	a := &Action{Key: tcell.KeyEnter}
	if !a.Matches(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)) {
		t.Error("enter did not match")
	}
	if a.Matches(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone)) {
		t.Error("rune matched a special key action")
	}
}
