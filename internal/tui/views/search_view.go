package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// SearchView lists the messages of the active chat matching a term.
type SearchView struct {
	*tview.Table
	theme *ui.Theme
	term  string
}

// NewSearchView creates a new search results view.
func NewSearchView(theme *ui.Theme) *SearchView {
	return &SearchView{Table: newTable(theme, " Results "), theme: theme}
}

// Name implements ui.Component.
func (sv *SearchView) Name() string { return "Search" }

// Update renders the matches for term.
func (sv *SearchView) Update(term string, msgs []chat.Message) {
	sv.term = term
	sv.Clear()
	for col, h := range []string{" TIME", " FROM", " MESSAGE"} {
		sv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
	for i, m := range msgs {
		from := "them"
		if m.Sent {
			from = "you"
		}
		sv.SetCell(i+1, 0, tview.NewTableCell(" "+tview.Escape(m.Timestamp)).SetTextColor(sv.theme.MutedColor))
		sv.SetCell(i+1, 1, tview.NewTableCell(" "+from).SetTextColor(sv.theme.FgColor))
		sv.SetCell(i+1, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(m.Text))).SetExpansion(1).SetTextColor(sv.theme.FgColor))
	}
	sv.SetTitle(fmt.Sprintf(" Results for %q (%d) ", tview.Escape(term), len(msgs)))
}

// Term returns the last searched term.
func (sv *SearchView) Term() string {
	return sv.term
}
