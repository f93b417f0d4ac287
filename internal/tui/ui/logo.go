package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Logo is the header mark. Its color follows the profile status so a
// degraded store is visible from every page.
type Logo struct {
	*tview.TextView
	theme  *Theme
	status string
}

func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)
	l := &Logo{TextView: tv, theme: theme}
	l.SetStatus("")
	return l
}

// SetStatus recolors the mark for a status name (READY, DEGRADED, ...).
// Unchanged status is a no-op.
func (l *Logo) SetStatus(status string) {
	if status == l.status && l.GetText(false) != "" {
		return
	}
	l.status = status
	l.Clear()
	mark := colorName(l.markColor())
	_, _ = fmt.Fprintf(l, "[%[1]s::b] ╔╦╗╔═╗╔╦╗\n ║║║║   ║ \n ╩ ╩╚═╝ ╩ [-:-:-]\n[%[2]s]modernchat[-]",
		mark, colorName(l.theme.MutedColor))
}

func (l *Logo) markColor() tcell.Color {
	switch l.status {
	case "READY":
		return l.theme.TitleColor
	case "DEGRADED":
		return l.theme.FlashErrColor
	}
	return l.theme.MutedColor
}
