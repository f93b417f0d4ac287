package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// NoticeLog lists recent flash notices, newest first, so an error that
// scrolled off the flash bar can still be read.
type NoticeLog struct {
	*tview.TextView
	theme *ui.Theme
}

func NewNoticeLog(theme *ui.Theme) *NoticeLog {
	return &NoticeLog{TextView: newText(theme, " Notices "), theme: theme}
}

func (n *NoticeLog) Name() string { return "Notices" }

func (n *NoticeLog) Update(history []ui.FlashMessage) {
	n.Clear()
	if len(history) == 0 {
		_, _ = fmt.Fprintf(n, "\n  [%s]Nothing yet.[-]", colorOf(n.theme.MutedColor))
		return
	}
	colors := map[ui.FlashLevel]string{
		ui.FlashInfo: colorOf(n.theme.FlashInfoColor),
		ui.FlashWarn: colorOf(n.theme.FlashWarnColor),
		ui.FlashErr:  colorOf(n.theme.FlashErrColor),
	}
	var b strings.Builder
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		fmt.Fprintf(&b, "  [%s]%s[-]  [%s]%s[-]", colorOf(n.theme.MutedColor), m.At.Format("15:04:05"),
			colors[m.Level], tview.Escape(m.Text))
		if m.Count > 1 {
			fmt.Fprintf(&b, " (x%d)", m.Count)
		}
		b.WriteByte('\n')
	}
	_, _ = fmt.Fprint(n, b.String())
	n.ScrollToBeginning()
}
