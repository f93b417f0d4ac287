package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	hv := &HelpView{TextView: newText(theme, " Help "), theme: theme}
	hv.render()
	return hv
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "Help" }

type helpSection struct {
	title string
	rows  [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{":", "Command mode"},
		{"Esc", "Cancel / go back"},
		{"?", "This help"},
		{"q", "Quit (from the chat list)"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Chat list", [][2]string{
		{"Enter", "Open chat"},
		{"1-9", "Open the Nth chat"},
		{"/", "Filter chats by name"},
		{"c", "Contacts"},
		{"a", "Add contact"},
		{"n", "Add contact from link"},
		{"l", "Show my contact link"},
		{"d", "Delete chat"},
	}},
	{"Contacts", [][2]string{
		{"Enter", "Start or open chat"},
		{"a", "Add contact"},
	}},
	{"Chat", [][2]string{
		{"i", "Focus composer"},
		{"Enter", "Send (in composer)"},
		{"/", "Search this chat"},
		{"d", "Delete chat"},
	}},
	{"Commands", [][2]string{
		{":search <term>", "Search the open chat"},
		{":chat <name>", "Open chat by name"},
		{":export [path]", "Write a backup file"},
		{":import <path>", "Replace all data from a backup"},
		{":profile", "Edit profile"},
		{":settings", "Edit settings"},
		{":signout", "Sign out, keeping local data"},
		{":delete-account", "Erase everything stored locally"},
		{":notices", "Recent notices and errors"},
		{":help, :q", "Help, quit"},
	}},
}

func (hv *HelpView) render() {
	kc := colorOf(hv.theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range helpSections {
		_, _ = fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, r := range s.rows {
			_, _ = fmt.Fprintf(&b, "  [%s]%-18s[-:-:-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
