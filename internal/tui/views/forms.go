package views

import (
	"github.com/rivo/tview"

	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/tui/ui"
)

// form is a themed tview.Form with a breadcrumb name.
type form struct {
	*tview.Form
	name string
}

func (f *form) Name() string { return f.name }

func newForm(theme *ui.Theme, name, title string) *form {
	f := tview.NewForm()
	frame(f.Box, theme, " "+title+" ")
	f.SetFieldBackgroundColor(theme.BgColor)
	f.SetFieldTextColor(theme.FgColor)
	f.SetLabelColor(theme.MenuKeyColor)
	f.SetButtonBackgroundColor(theme.BorderColor)
	f.SetButtonTextColor(theme.BgColor)
	return &form{Form: f, name: name}
}

func (f *form) text(label string) string {
	if item, ok := f.GetFormItemByLabel(label).(*tview.InputField); ok {
		return item.GetText()
	}
	return ""
}

func (f *form) clearInputs() {
	for i := range f.GetFormItemCount() {
		if input, ok := f.GetFormItem(i).(*tview.InputField); ok {
			input.SetText("")
		}
	}
	f.SetFocus(0)
}

// SignInForm collects the email and optional username for sign-in.
type SignInForm struct {
	*form
}

// NewSignInForm creates the sign-in page. onSubmit receives the raw values.
func NewSignInForm(theme *ui.Theme, onSubmit func(email, username string)) *SignInForm {
	f := &SignInForm{form: newForm(theme, "Sign in", "Sign in to modernchat")}
	f.AddInputField("Email", "", 40, nil, nil)
	f.AddInputField("Username", "", 40, nil, nil)
	f.AddButton("Sign in", func() {
		onSubmit(f.text("Email"), f.text("Username"))
	})
	return f
}

// Reset empties the fields.
func (f *SignInForm) Reset() { f.clearInputs() }

// ContactForm adds a contact by name and email.
type ContactForm struct {
	*form
	status chat.Status
}

// NewContactForm creates the add-contact page.
func NewContactForm(theme *ui.Theme, onSubmit func(name, email string, status chat.Status)) *ContactForm {
	f := &ContactForm{form: newForm(theme, "Add contact", "Add contact"), status: chat.StatusOffline}
	f.AddInputField("Name", "", 40, nil, nil)
	f.AddInputField("Email", "", 40, nil, nil)
	f.AddDropDown("Status", []string{string(chat.StatusOffline), string(chat.StatusOnline)}, 0, func(option string, _ int) {
		f.status = chat.Status(option)
	})
	f.AddButton("Add", func() {
		onSubmit(f.text("Name"), f.text("Email"), f.status)
	})
	return f
}

// Reset empties the fields.
func (f *ContactForm) Reset() { f.clearInputs() }

// LinkForm adds a contact from someone else's contact link.
type LinkForm struct {
	*form
}

// NewLinkForm creates the add-by-link page.
func NewLinkForm(theme *ui.Theme, onSubmit func(link, name string)) *LinkForm {
	f := &LinkForm{form: newForm(theme, "Add by link", "Add contact from link")}
	f.AddInputField("Link", "", 60, nil, nil)
	f.AddInputField("Name", "", 40, nil, nil)
	f.AddButton("Add", func() {
		onSubmit(f.text("Link"), f.text("Name"))
	})
	return f
}

// Reset empties the fields.
func (f *LinkForm) Reset() { f.clearInputs() }

// ProfileForm edits the signed-in user's profile.
type ProfileForm struct {
	*form
}

// NewProfileForm creates the profile page.
func NewProfileForm(theme *ui.Theme, onSubmit func(username, bio, avatar string)) *ProfileForm {
	f := &ProfileForm{form: newForm(theme, "Profile", "Profile")}
	f.AddInputField("Username", "", 40, nil, nil)
	f.AddInputField("Bio", "", 60, nil, nil)
	f.AddInputField("Avatar", "", 60, nil, nil)
	f.AddButton("Save", func() {
		onSubmit(f.text("Username"), f.text("Bio"), f.text("Avatar"))
	})
	return f
}

// Load fills the fields from p.
func (f *ProfileForm) Load(p chat.Profile) {
	set := func(label, v string) {
		if item, ok := f.GetFormItemByLabel(label).(*tview.InputField); ok {
			item.SetText(v)
		}
	}
	set("Username", p.Username)
	set("Bio", p.Bio)
	set("Avatar", p.Avatar)
	f.SetFocus(0)
}
