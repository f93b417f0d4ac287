package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode says what a submitted line is for.
type PromptMode int

const (
	PromptCommand PromptMode = iota
	// PromptFilter narrows the chat list.
	PromptFilter
	// PromptSearch searches the open chat's messages.
	PromptSearch
)

const promptHistory = 50

var promptModes = map[PromptMode]struct{ label, title string }{
	PromptCommand: {":", " Command "},
	PromptFilter:  {"/", " Filter chats "},
	PromptSearch:  {"?", " Search messages "},
}

// Prompt is the input bar under the pages. Each mode keeps its own
// history, recalled with Up and Down.
type Prompt struct {
	*tview.InputField
	mode     PromptMode
	history  map[PromptMode][]string
	cursor   int
	onSubmit func(mode PromptMode, text string)
	onCancel func()
}

func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{InputField: input, history: make(map[PromptMode][]string)}
	input.SetDoneFunc(p.done)
	input.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyUp:
			p.recall(-1)
			return nil
		case tcell.KeyDown:
			p.recall(1)
			return nil
		}
		return ev
	})
	return p
}

func (p *Prompt) done(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		text := p.GetText()
		p.SetText("")
		p.remember(text)
		// An empty filter clears the filter; other modes ignore it.
		if p.onSubmit != nil && (text != "" || p.mode == PromptFilter) {
			p.onSubmit(p.mode, text)
		}
	case tcell.KeyEscape:
		p.SetText("")
		if p.onCancel != nil {
			p.onCancel()
		}
	}
}

func (p *Prompt) remember(text string) {
	h := p.history[p.mode]
	if text == "" || (len(h) > 0 && h[len(h)-1] == text) {
		return
	}
	h = append(h, text)
	if len(h) > promptHistory {
		h = h[1:]
	}
	p.history[p.mode] = h
}

// recall steps through the mode's history; stepping past the newest
// entry leaves an empty line.
func (p *Prompt) recall(step int) {
	h := p.history[p.mode]
	p.cursor = max(0, min(len(h), p.cursor+step))
	if p.cursor == len(h) {
		p.SetText("")
		return
	}
	p.SetText(h[p.cursor])
}

func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) {
	p.onSubmit = fn
}

func (p *Prompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Activate clears the line and readies the prompt for mode.
func (p *Prompt) Activate(mode PromptMode) {
	p.mode = mode
	p.cursor = len(p.history[mode])
	p.SetText("")
	m := promptModes[mode]
	p.SetLabel(m.label)
	p.SetTitle(m.title)
}

func (p *Prompt) Mode() PromptMode {
	return p.mode
}

// History returns the mode's past entries, oldest first.
func (p *Prompt) History(mode PromptMode) []string {
	return append([]string(nil), p.history[mode]...)
}
