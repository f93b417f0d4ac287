package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// FlashLevel is the severity of a notice.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

type levelStyle struct {
	ttl   time.Duration
	icon  string
	color func(*Theme) tcell.Color
}

var levelStyles = map[FlashLevel]levelStyle{
	FlashInfo: {4 * time.Second, "●", func(t *Theme) tcell.Color { return t.FlashInfoColor }},
	FlashWarn: {6 * time.Second, "▲", func(t *Theme) tcell.Color { return t.FlashWarnColor }},
	FlashErr:  {8 * time.Second, "✖", func(t *Theme) tcell.Color { return t.FlashErrColor }},
}

const historySize = 20

// FlashMessage is one notice. Count grows when the same notice repeats
// while still shown, e.g. an autosave failing on every tick.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Count   int
	At      time.Time
	Expires time.Time
}

// FlashModel holds the notice on screen plus a short history. Safe for
// use from the bus watcher and the UI goroutine.
type FlashModel struct {
	mu      sync.Mutex
	current FlashMessage
	history []FlashMessage
	now     func() time.Time
	watchCh chan FlashMessage
}

func NewFlashModel() *FlashModel {
	return &FlashModel{
		now:     time.Now,
		watchCh: make(chan FlashMessage, 8),
	}
}

func (f *FlashModel) Info(msg string) { f.push(msg, FlashInfo) }

func (f *FlashModel) Warn(msg string) { f.push(msg, FlashWarn) }

// Err shows err; nil is ignored.
func (f *FlashModel) Err(err error) {
	if err != nil {
		f.push(err.Error(), FlashErr)
	}
}

func (f *FlashModel) push(text string, level FlashLevel) {
	now := f.now()
	f.mu.Lock()
	msg := f.current
	if msg.Text == text && msg.Level == level && now.Before(msg.Expires) {
		msg.Count++
	} else {
		msg = FlashMessage{Text: text, Level: level, Count: 1, At: now}
		f.history = append(f.history, msg)
		if len(f.history) > historySize {
			f.history = f.history[len(f.history)-historySize:]
		}
	}
	msg.Expires = now.Add(levelStyles[level].ttl)
	f.current = msg
	f.mu.Unlock()

	select {
	case f.watchCh <- msg:
	default:
	}
}

// Current returns the notice on screen, or nil when none is live.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Text == "" || f.now().After(f.current.Expires) {
		return nil
	}
	msg := f.current
	return &msg
}

// History returns past notices, oldest first. Repeats are folded.
func (f *FlashModel) History() []FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FlashMessage(nil), f.history...)
}

func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the one-line notice strip under the pages.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &FlashBar{TextView: tv, theme: theme}
}

// Update shows msg, or clears the bar for nil.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}
	style := levelStyles[msg.Level]
	text := tview.Escape(msg.Text)
	if msg.Count > 1 {
		text = fmt.Sprintf("%s (x%d)", text, msg.Count)
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s %s[-]", colorName(style.color(fb.theme)), style.icon, text)
}
