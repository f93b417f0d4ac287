package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// ContactList shows the address book.
type ContactList struct {
	*tview.Table
	theme    *ui.Theme
	contacts []chat.Contact
}

// NewContactList creates a new contact table.
func NewContactList(theme *ui.Theme) *ContactList {
	cl := &ContactList{Table: newTable(theme, " Contacts "), theme: theme}
	cl.render()
	return cl
}

// Name implements ui.Component.
func (cl *ContactList) Name() string { return "Contacts" }

// Update replaces the rows.
func (cl *ContactList) Update(contacts []chat.Contact) {
	cl.contacts = contacts
	cl.render()
}

func (cl *ContactList) render() {
	cl.Clear()
	for col, h := range []string{" NAME", " EMAIL", " STATUS"} {
		cl.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(1))
	}
	for i, c := range cl.contacts {
		statusColor := cl.theme.MutedColor
		if c.Status == chat.StatusOnline {
			statusColor = cl.theme.OnlineColor
		}
		cl.SetCell(i+1, 0, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(c.Name))).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(i+1, 1, tview.NewTableCell(" "+tview.Escape(c.Email)).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(i+1, 2, tview.NewTableCell(" "+string(c.Status)).SetTextColor(statusColor))
	}
	cl.SetTitle(fmt.Sprintf(" Contacts (%d) ", len(cl.contacts)))
}

// SelectedContact returns the id of the contact under the cursor, or empty.
func (cl *ContactList) SelectedContact() string {
	row, _ := cl.GetSelection()
	if row < 1 || row > len(cl.contacts) {
		return ""
	}
	return cl.contacts[row-1].ID
}
