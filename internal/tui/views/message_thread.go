package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// MessageThread displays messages and a composer for the active chat.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	chatID   string
	chatName string
	onSend   func(text string)
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	mt := &MessageThread{
		theme:    theme,
		messages: newText(theme, " Messages "),
		composer: tview.NewInputField().
			SetLabel(" > ").
			SetFieldWidth(0).
			SetPlaceholder("Type a message...").
			SetFieldBackgroundColor(theme.BgColor).
			SetFieldTextColor(theme.FgColor).
			SetLabelColor(theme.MenuKeyColor),
	}
	mt.messages.SetWordWrap(true)
	frame(mt.composer.Box, theme, " Compose (i to focus) ")

	// The store rejects whitespace-only drafts; they stay in the composer.
	mt.composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil && mt.composer.GetText() != "" {
			mt.onSend(mt.composer.GetText())
		}
	})

	mt.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mt.messages, 0, 1, true).
		AddItem(mt.composer, 3, 0, false)
	return mt
}

// Name implements ui.Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// SetOnSend sets the callback when a message is submitted.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// ClearDraft empties the composer after a successful send.
func (mt *MessageThread) ClearDraft() {
	mt.composer.SetText("")
}

// ChatID returns the id of the chat on display.
func (mt *MessageThread) ChatID() string {
	return mt.chatID
}

// Show renders c, replacing whatever was on display.
func (mt *MessageThread) Show(c chat.Chat) {
	if c.ID != mt.chatID {
		mt.composer.SetText("")
	}
	mt.chatID = c.ID
	mt.chatName = c.Name
	mt.messages.SetTitle(fmt.Sprintf(" %s [%s] ", tview.Escape(sanitizeForTerminal(c.Name)), c.Status))
	mt.messages.Clear()
	_, _ = fmt.Fprint(mt.messages, mt.format(c))
	mt.messages.ScrollToEnd()
}

// Reset forgets the chat, e.g. after it was deleted.
func (mt *MessageThread) Reset() {
	mt.chatID = ""
	mt.chatName = ""
	mt.messages.Clear()
	mt.messages.SetTitle(" Messages ")
	mt.composer.SetText("")
}

func (mt *MessageThread) format(c chat.Chat) string {
	if len(c.Messages) == 0 {
		return fmt.Sprintf("[%s]No messages yet. Say hello![-]", colorOf(mt.theme.MutedColor))
	}
	var b strings.Builder
	for _, m := range c.Messages {
		sender, color := c.Name, mt.theme.ReceivedColor
		if m.Sent {
			sender, color = "You", mt.theme.SentColor
		}
		_, _ = fmt.Fprintf(&b, "[%s::b]%s[-:-:-] [%s]%s[-]\n%s\n\n",
			colorOf(color), tview.Escape(sanitizeForTerminal(sender)),
			colorOf(mt.theme.MutedColor), tview.Escape(m.Timestamp),
			tview.Escape(sanitizeForTerminal(m.Text)))
	}
	return b.String()
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
