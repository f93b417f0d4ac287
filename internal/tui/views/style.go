package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// frame applies the bordered, titled look every page shares.
func frame(b *tview.Box, theme *ui.Theme, title string) {
	b.SetBorder(true).
		SetBorderColor(theme.BorderColor).
		SetTitle(title).
		SetTitleColor(theme.TitleColor).
		SetBackgroundColor(theme.BgColor)
}

// newTable returns a framed row-selectable table with a fixed header row.
func newTable(theme *ui.Theme, title string) *tview.Table {
	t := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0).
		SetSelectedStyle(tcell.StyleDefault.
			Foreground(theme.TableCursorFg).
			Background(theme.TableCursorBg))
	frame(t.Box, theme, title)
	return t
}

// newText returns a framed text view with color tags enabled.
func newText(theme *ui.Theme, title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetTextColor(theme.FgColor)
	frame(tv.Box, theme, title)
	return tv
}

func colorOf(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
