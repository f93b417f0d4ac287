package views

import (
	"maps"
	"slices"
	"strconv"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/tui/ui"
)

var themeOptions = []string{string(chat.ThemeLight), string(chat.ThemeDark), string(chat.ThemeAuto)}

// SettingsForm edits every preference. Values travel as the text form
// accepted by chat.Settings.Set.
type SettingsForm struct {
	*form
	values map[string]string
	onSave func(values map[string]string)
}

// NewSettingsForm creates the settings page.
func NewSettingsForm(theme *ui.Theme, onSave func(values map[string]string)) *SettingsForm {
	return &SettingsForm{
		form:   newForm(theme, "Settings", "Settings"),
		values: make(map[string]string),
		onSave: onSave,
	}
}

// Load rebuilds the fields from s.
func (f *SettingsForm) Load(s chat.Settings) {
	f.Clear(true)
	clear(f.values)
	for _, name := range chat.SettingNames {
		v, _ := s.Get(name)
		f.values[name] = v
		switch {
		case name == "theme":
			f.AddDropDown(name, themeOptions, max(slices.Index(themeOptions, v), 0), func(option string, _ int) {
				f.values[name] = option
			})
		case v == "true" || v == "false":
			f.AddCheckbox(name, v == "true", func(checked bool) {
				f.values[name] = strconv.FormatBool(checked)
			})
		default:
			f.AddInputField(name, v, 20, nil, func(text string) {
				f.values[name] = text
			})
		}
	}
	f.AddButton("Save", func() {
		f.onSave(f.Values())
	})
	f.SetFocus(0)
}

// Values returns a copy of the edited values.
func (f *SettingsForm) Values() map[string]string {
	return maps.Clone(f.values)
}
