package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Crumbs is the navigation trail under the header, with an unread
// counter on the right once any chat has unread messages.
type Crumbs struct {
	*tview.TextView
	theme  *Theme
	labels []string
	unread int
}

func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &Crumbs{TextView: tv, theme: theme}
}

// Update replaces the trail. The last label is the current page.
func (c *Crumbs) Update(labels []string) {
	c.labels = append(c.labels[:0], labels...)
	c.render()
}

// SetUnread updates the unread counter.
func (c *Crumbs) SetUnread(n int) {
	if n == c.unread {
		return
	}
	c.unread = n
	c.render()
}

func (c *Crumbs) render() {
	c.Clear()
	var b strings.Builder
	for i, label := range c.labels {
		if i > 0 {
			b.WriteString(" › ")
		}
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(c.labels)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		fmt.Fprintf(&b, "[%s:%s:%s] %s [-:-:-]", colorName(fg), colorName(bg), attr, tview.Escape(label))
	}
	if c.unread > 0 {
		fmt.Fprintf(&b, "  [%s::b]%d unread[-:-:-]", colorName(c.theme.CounterColor), c.unread)
	}
	_, _ = fmt.Fprint(c, b.String())
}

// colorName returns the tview tag name for a color.
func colorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
