package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/matheus3301/modernchat/internal/chat"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	MutedColor        tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	SentColor         tcell.Color
	ReceivedColor     tcell.Color
	OnlineColor       tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
}

// DarkTheme returns the dark palette.
func DarkTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		MutedColor:        tcell.ColorGray,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		SentColor:         tcell.ColorDodgerBlue,
		ReceivedColor:     tcell.ColorPapayaWhip,
		OnlineColor:       tcell.ColorLimeGreen,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
	}
}

// LightTheme returns the light palette.
func LightTheme() *Theme {
	t := DarkTheme()
	t.BgColor = tcell.ColorWhite
	t.FgColor = tcell.ColorDarkSlateGray
	t.MutedColor = tcell.ColorDarkGray
	t.TableHeaderFg = tcell.ColorBlack
	t.TableHeaderBg = tcell.ColorWhite
	t.TableCursorFg = tcell.ColorWhite
	t.TableCursorBg = tcell.ColorDodgerBlue
	t.CounterColor = tcell.ColorDarkOrange
	t.ReceivedColor = tcell.ColorBlack
	t.OnlineColor = tcell.ColorGreen
	t.FlashInfoColor = tcell.ColorDarkBlue
	return t
}

// ForSettings picks the palette for the saved preferences. Auto follows
// the terminal's usual dark background. A valid accent color replaces
// the border and title colors.
func ForSettings(s chat.Settings) *Theme {
	t := DarkTheme()
	if s.Theme == chat.ThemeLight {
		t = LightTheme()
	}
	if accent := tcell.GetColor(s.AccentColor); accent != tcell.ColorDefault {
		t.BorderColor = accent
		t.MenuKeyColor = accent
		t.SentColor = accent
		t.PromptBorderColor = accent
	}
	return t
}
