package views

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// ChatList is the main chat list view.
type ChatList struct {
	*tview.Table
	theme    *ui.Theme
	chats    []chat.Chat
	total    int
	filter   string
	activeID string
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
	return &ChatList{Table: newTable(theme, " Chats "), theme: theme}
}

// Name implements ui.Component.
func (cl *ChatList) Name() string { return "Chats" }

// Update replaces the rows. chats is the visible, already filtered
// list; total is the size of the unfiltered list.
func (cl *ChatList) Update(chats []chat.Chat, total int, filter, activeID string) {
	selected := cl.SelectedChat()
	cl.chats = chats
	cl.total = total
	cl.filter = filter
	cl.activeID = activeID
	cl.render(selected)
}

// render redraws the rows, keeping the cursor on selected if it is still listed.
func (cl *ChatList) render(selected string) {
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
		{" UNREAD", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	for i, c := range cl.chats {
		row := i + 1
		name := c.Name
		if c.Status == chat.StatusOnline {
			name = "● " + name
		}
		nameCell := tview.NewTableCell(" " + tview.Escape(sanitizeForTerminal(name))).
			SetExpansion(1).
			SetTextColor(cl.theme.FgColor)
		if c.ID == cl.activeID {
			nameCell.SetAttributes(tcell.AttrBold)
		}
		unread := ""
		if c.Unread > 0 {
			unread = strconv.Itoa(c.Unread)
		}
		cl.SetCell(row, 0, nameCell)
		cl.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(c.LastMessage))).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 2, tview.NewTableCell(tview.Escape(c.Timestamp)).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		cl.SetCell(row, 3, tview.NewTableCell(unread).SetTextColor(cl.theme.CounterColor).SetAlign(tview.AlignRight))
		if c.ID == selected {
			cl.Select(row, 0)
		}
	}

	if cl.filter != "" {
		cl.SetTitle(fmt.Sprintf(" Chats (%d/%d) filter: %s ", len(cl.chats), cl.total, tview.Escape(cl.filter)))
	} else {
		cl.SetTitle(fmt.Sprintf(" Chats (%d) ", cl.total))
	}
}

// SelectedChat returns the id of the chat under the cursor, or empty.
func (cl *ChatList) SelectedChat() string {
	row, _ := cl.GetSelection()
	return cl.ChatByIndex(row)
}

// ChatByIndex returns the id of the Nth visible chat (1-based).
func (cl *ChatList) ChatByIndex(n int) string {
	if n < 1 || n > len(cl.chats) {
		return ""
	}
	return cl.chats[n-1].ID
}
