package chat

import (
	"fmt"
	"regexp"
	"strconv"
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Settings is the flat user preference record. Persisted values are
// merged onto DefaultSettings on load.
type Settings struct {
	Theme                Theme  `json:"theme"`
	AccentColor          string `json:"accentColor"`
	FontSize             int    `json:"fontSize"`
	DesktopNotifications bool   `json:"desktopNotifications"`
	SoundEffects         bool   `json:"soundEffects"`
	EmailNotifications   bool   `json:"emailNotifications"`
	LastSeen             bool   `json:"lastSeen"`
	ReadReceipts         bool   `json:"readReceipts"`
}

// DefaultSettings returns the preferences of a fresh profile.
func DefaultSettings() Settings {
	return Settings{
		Theme:                ThemeLight,
		AccentColor:          "#007bff",
		FontSize:             16,
		DesktopNotifications: true,
		SoundEffects:         true,
		EmailNotifications:   false,
		LastSeen:             true,
		ReadReceipts:         true,
	}
}

var accentRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func (s *Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		return fmt.Errorf("unknown theme %q", s.Theme)
	}
	if !accentRegexp.MatchString(s.AccentColor) {
		return fmt.Errorf("accent color %q is not #rrggbb", s.AccentColor)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font size %d must be positive", s.FontSize)
	}
	return nil
}

// SettingNames lists the keys accepted by Set, in display order.
var SettingNames = []string{
	"theme", "accentColor", "fontSize", "desktopNotifications",
	"soundEffects", "emailNotifications", "lastSeen", "readReceipts",
}

// Set assigns one preference from its text form. Names are the JSON keys.
func (s *Settings) Set(name, value string) error {
	parseBool := func(dst *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid(name, fmt.Sprintf("%q is not a boolean", value))
		}
		*dst = b
		return nil
	}
	switch name {
	case "theme":
		s.Theme = Theme(value)
	case "accentColor":
		s.AccentColor = value
	case "fontSize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(name, fmt.Sprintf("%q is not a number", value))
		}
		s.FontSize = n
	case "desktopNotifications":
		return parseBool(&s.DesktopNotifications)
	case "soundEffects":
		return parseBool(&s.SoundEffects)
	case "emailNotifications":
		return parseBool(&s.EmailNotifications)
	case "lastSeen":
		return parseBool(&s.LastSeen)
	case "readReceipts":
		return parseBool(&s.ReadReceipts)
	default:
		return invalid("setting", fmt.Sprintf("unknown name %q", name))
	}
	return nil
}

// Get returns one preference in the text form accepted by Set.
func (s Settings) Get(name string) (string, bool) {
	switch name {
	case "theme":
		return string(s.Theme), true
	case "accentColor":
		return s.AccentColor, true
	case "fontSize":
		return strconv.Itoa(s.FontSize), true
	case "desktopNotifications":
		return strconv.FormatBool(s.DesktopNotifications), true
	case "soundEffects":
		return strconv.FormatBool(s.SoundEffects), true
	case "emailNotifications":
		return strconv.FormatBool(s.EmailNotifications), true
	case "lastSeen":
		return strconv.FormatBool(s.LastSeen), true
	case "readReceipts":
		return strconv.FormatBool(s.ReadReceipts), true
	}
	return "", false
}
