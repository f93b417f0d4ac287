package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages keeps tview pages as a navigation stack: only the top page is
// visible, and every stack change is reported to the change callback.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(stack []string)
}

func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push makes name the top page. A page already in the stack moves to
// the top instead of appearing twice.
func (p *Pages) Push(name string) {
	if p.Current() == name {
		return
	}
	if i := slices.Index(p.stack, name); i >= 0 {
		p.stack = slices.Delete(p.stack, i, i+1)
	}
	p.hideTop()
	p.stack = append(p.stack, name)
	p.showTop()
}

// Pop drops the top page and returns its name. The bottom page stays;
// popping it returns "".
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	top := p.Current()
	p.hideTop()
	p.stack = p.stack[:len(p.stack)-1]
	p.showTop()
	return top
}

// Reset leaves name as the only page.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = append(p.stack[:0], name)
	p.showTop()
}

func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

func (p *Pages) Contains(name string) bool {
	return slices.Contains(p.stack, name)
}

// Stack returns a copy of the stack, bottom first.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

func (p *Pages) Depth() int {
	return len(p.stack)
}

func (p *Pages) hideTop() {
	if top := p.Current(); top != "" {
		p.HidePage(top)
	}
}

func (p *Pages) showTop() {
	top := p.Current()
	p.ShowPage(top)
	p.SendToFront(top)
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
