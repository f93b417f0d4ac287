package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// LinkView shows the signed-in user's contact link as text and QR code.
type LinkView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewLinkView creates the contact-link page.
func NewLinkView(theme *ui.Theme) *LinkView {
	tv := newText(theme, " Share your contact link ")
	tv.SetTextAlign(tview.AlignCenter)
	return &LinkView{TextView: tv, theme: theme}
}

// Name implements ui.Component.
func (lv *LinkView) Name() string { return "Contact link" }

// Show renders link and its QR code.
func (lv *LinkView) Show(link string) {
	lv.Clear()
	_, _ = fmt.Fprintf(lv, "\n[::b]%s[-:-:-]\n\n", tview.Escape(link))
	_, _ = fmt.Fprint(lv, RenderQR(link))
	_, _ = fmt.Fprint(lv, "\nScan or paste this link into \"Add by link\" on another profile.\n")
	lv.ScrollToBeginning()
}

// RenderQR converts a string to a compact QR code using Unicode
// half-block characters, two modules per text row.
func RenderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "(QR generation failed: " + err.Error() + ")\n"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := range cols {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
