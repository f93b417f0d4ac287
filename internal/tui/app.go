// Package tui is the terminal front end over a running profile.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/idle"
	"github.com/matheus3301/modernchat/internal/notify"
	"github.com/matheus3301/modernchat/internal/session"
	"github.com/matheus3301/modernchat/internal/status"
	"github.com/matheus3301/modernchat/internal/tui/keys"
	"github.com/matheus3301/modernchat/internal/tui/ui"
	"github.com/matheus3301/modernchat/internal/tui/views"
)

// Page names.
const (
	pageSignIn     = "signin"
	pageChats      = "chats"
	pageContacts   = "contacts"
	pageThread     = "thread"
	pageSearch     = "search"
	pageHelp       = "help"
	pageNotices    = "notices"
	pageLink       = "link"
	pageAddContact = "add-contact"
	pageAddLink    = "add-link"
	pageProfile    = "profile"
	pageSettings   = "settings"
	pageConfirm    = "confirm"
)

// formPages own every key except Escape.
var formPages = map[string]bool{
	pageSignIn:     true,
	pageAddContact: true,
	pageAddLink:    true,
	pageProfile:    true,
	pageSettings:   true,
	pageConfirm:    true,
}

// Options configures the TUI.
type Options struct {
	Session string
	// Backend is the storage backend name shown in the header.
	Backend   string
	BackupDir string
	Store     *chat.Store
	Bus       *bus.Bus
	Machine   *status.Machine
	Beeper    *Beeper
	Logger    *zap.Logger
	// IdleTimeout signs the user out after this long without a key
	// press. Zero disables it.
	IdleTimeout time.Duration
	// Screen overrides the terminal, e.g. with a simulation screen.
	Screen tcell.Screen
	Now    func() time.Time
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	opts     Options
	store    *chat.Store
	logger   *zap.Logger
	theme    *ui.Theme
	registry *keys.Registry
	flash    *ui.FlashModel
	idle     *idle.Watcher
	started  time.Time

	root     *tview.Flex
	pages    *ui.Pages
	crumbs   *ui.Crumbs
	logo     *ui.Logo
	menu     *ui.Menu
	info     *ui.ProfileInfo
	flashBar *ui.FlashBar
	prompt   *ui.Prompt

	components  map[string]ui.Component
	chatList    *views.ChatList
	contacts    *views.ContactList
	thread      *views.MessageThread
	search      *views.SearchView
	help        *views.HelpView
	notices     *views.NoticeLog
	link        *views.LinkView
	signIn      *views.SignInForm
	contactForm *views.ContactForm
	linkForm    *views.LinkForm
	profile     *views.ProfileForm
	settings    *views.SettingsForm
	confirm     *confirmModal

	filter   string
	signedIn bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates the TUI over a loaded store.
func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
	}
	if opts.Beeper != nil {
		opts.Beeper.attach(screen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.ForSettings(opts.Store.Settings())

	a := &App{
		app:        tview.NewApplication().SetScreen(screen),
		opts:       opts,
		store:      opts.Store,
		logger:     opts.Logger.Named("tui"),
		theme:      theme,
		registry:   keys.NewRegistry(),
		flash:      ui.NewFlashModel(),
		started:    opts.Now(),
		pages:      ui.NewPages(),
		crumbs:     ui.NewCrumbs(theme),
		logo:       ui.NewLogo(theme),
		menu:       ui.NewMenu(theme),
		info:       ui.NewProfileInfo(theme),
		flashBar:   ui.NewFlashBar(theme),
		prompt:     ui.NewPrompt(theme),
		components: make(map[string]ui.Component),
		chatList:   views.NewChatList(theme),
		contacts:   views.NewContactList(theme),
		thread:     views.NewMessageThread(theme),
		search:     views.NewSearchView(theme),
		help:       views.NewHelpView(theme),
		notices:    views.NewNoticeLog(theme),
		link:       views.NewLinkView(theme),
		confirm:    newConfirmModal(theme),
		ctx:        ctx,
		cancel:     cancel,
	}
	a.idle = idle.NewWatcher(opts.IdleTimeout, a.logger, func() {
		a.app.QueueUpdateDraw(a.signOutIdle)
	})
	a.signIn = views.NewSignInForm(theme, a.signInSubmit)
	a.contactForm = views.NewContactForm(theme, a.addContact)
	a.linkForm = views.NewLinkForm(theme, a.addContactFromLink)
	a.profile = views.NewProfileForm(theme, a.saveProfile)
	a.settings = views.NewSettingsForm(theme, a.saveSettings)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.signedIn = a.store.SignedIn()
	a.refreshAll()
	a.home()

	return a, nil
}

func (a *App) setupBindings() {
	r := a.registry
	r.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: ':', Description: "Command", Handler: func() { a.showPrompt(ui.PromptCommand) }})
	r.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Handler: func() { a.push(pageHelp) }})
	r.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'q', Description: "Quit/Back", Handler: func() {
		if a.pages.Depth() <= 1 {
			a.Stop()
			return
		}
		a.back()
	}})

	r.AddView(pageChats, &keys.Action{Key: tcell.KeyEnter, Description: "Open", Handler: func() { a.openChat(a.chatList.SelectedChat()) }})
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: '/', Description: "Filter", Handler: func() { a.showPrompt(ui.PromptFilter) }})
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: 'c', Description: "Contacts", Handler: func() { a.push(pageContacts) }})
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: 'a', Description: "Add contact", Handler: a.showAddContact})
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: 'n', Description: "Add by link", Handler: a.showAddLink})
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: 'l', Description: "My link", Handler: a.showLink})
	r.AddView(pageChats, &keys.Action{Key: tcell.KeyRune, Rune: 'd', Description: "Delete", Handler: func() { a.confirmDelete(a.chatList.SelectedChat()) }})
	for n := 1; n <= 9; n++ {
		r.AddView(pageChats, &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Label: "1-9", Description: "Jump", Hidden: n > 1,
			Handler: func() { a.openChat(a.chatList.ChatByIndex(n)) },
		})
	}

	r.AddView(pageContacts, &keys.Action{Key: tcell.KeyEnter, Description: "Chat", Handler: func() { a.openContact(a.contacts.SelectedContact()) }})
	r.AddView(pageContacts, &keys.Action{Key: tcell.KeyRune, Rune: 'a', Description: "Add contact", Handler: a.showAddContact})
	r.AddView(pageContacts, &keys.Action{Key: tcell.KeyRune, Rune: 'n', Description: "Add by link", Handler: a.showAddLink})

	r.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'i', Description: "Compose", Handler: func() { a.app.SetFocus(a.thread.Composer()) }})
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: '/', Description: "Search", Handler: func() { a.showPrompt(ui.PromptSearch) }})
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'd', Description: "Delete", Handler: func() { a.confirmDelete(a.thread.ChatID()) }})
	r.AddView(pageThread, &keys.Action{Key: tcell.KeyEscape, Description: "Back", Handler: a.back})
}

func (a *App) setupCallbacks() {
	a.thread.SetOnSend(a.send)
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(text)
		case ui.PromptFilter:
			a.filter = text
			a.refreshChats()
		case ui.PromptSearch:
			a.searchActive(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
	a.pages.SetOnChange(func(stack []string) {
		labels := make([]string, 0, len(stack))
		for _, name := range stack {
			labels = append(labels, a.components[name].Name())
		}
		a.crumbs.Update(labels)
		a.menu.Update(a.registry.Hints(a.pages.Current()))
	})
}

func (a *App) setupLayout() {
	for name, c := range map[string]ui.Component{
		pageSignIn:     a.signIn,
		pageChats:      a.chatList,
		pageContacts:   a.contacts,
		pageThread:     a.thread,
		pageSearch:     a.search,
		pageHelp:       a.help,
		pageNotices:    a.notices,
		pageLink:       a.link,
		pageAddContact: a.contactForm,
		pageAddLink:    a.linkForm,
		pageProfile:    a.profile,
		pageSettings:   a.settings,
		pageConfirm:    a.confirm,
	} {
		a.components[name] = c
		a.pages.AddPage(name, c, true, false)
	}

	header := tview.NewFlex().
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 14, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.keyboard)
}

func (a *App) keyboard(ev *tcell.EventKey) *tcell.EventKey {
	a.idle.Touch()
	if a.prompt.HasFocus() {
		return ev
	}
	current := a.pages.Current()

	if a.thread.Composer().HasFocus() {
		if ev.Key() == tcell.KeyEscape {
			a.app.SetFocus(a.thread.Messages())
			return nil
		}
		return ev
	}
	if formPages[current] {
		if ev.Key() == tcell.KeyEscape {
			a.back()
			return nil
		}
		return ev
	}
	if ev.Key() == tcell.KeyEscape && a.pages.Depth() > 1 && current != pageThread {
		a.back()
		return nil
	}
	if a.registry.HandleEvent(current, ev) {
		return nil
	}
	return ev
}

// Run shows the TUI and blocks until it is stopped.
func (a *App) Run() error {
	events, unsub := a.opts.Bus.SubscribeMany(256,
		"chat.", "contact.", "message.", "settings.", "account.",
		"state.", "session.", "notice.",
	)
	defer unsub()
	defer a.cancel()

	go a.watchEvents(events)
	go a.watchFlash()
	a.idle.Start(a.ctx)
	defer a.idle.Stop()

	a.logger.Info("tui started", zap.String("page", a.pages.Current()))
	return a.app.Run()
}

// Stop ends Run.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) watchEvents(events <-chan bus.Event) {
	for {
		select {
		case evt := <-events:
			a.app.QueueUpdateDraw(func() { a.handle(evt) })
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) watchFlash() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.flash.Watch():
		case <-ticker.C:
		case <-a.ctx.Done():
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.flashBar.Update(a.flash.Current())
			a.refreshInfo()
		})
	}
}

// handle applies one bus event to the views. It runs on the UI goroutine.
func (a *App) handle(evt bus.Event) {
	switch evt.Kind {
	case bus.KindAccountChanged:
		a.onAccount()
	case bus.KindContactAdded:
		a.refreshContacts()
	case bus.KindChatDeleted:
		if e, ok := evt.Payload.(chat.DeleteEvent); ok && e.ChatID == a.thread.ChatID() {
			a.thread.Reset()
			if a.pages.Contains(pageThread) || a.pages.Contains(pageSearch) {
				a.home()
			}
		}
		a.refreshChats()
	case bus.KindChatUpserted, bus.KindChatActivated, bus.KindMessageAppended:
		a.refreshChats()
		a.refreshThread()
	case bus.KindStateImported:
		a.refreshAll()
		if a.thread.ChatID() != "" && a.store.ActiveChatID() == "" {
			a.thread.Reset()
			a.home()
		}
	case bus.KindStatusChanged:
		if sc, ok := evt.Payload.(status.StatusChange); ok && sc.To == status.Degraded {
			a.flash.Warn("Storage is failing; recent changes may not be saved")
		}
	case bus.KindNoticeDesktop:
		if n, ok := evt.Payload.(notify.Notice); ok {
			a.flash.Info(n.Title + ": " + n.Body)
		}
	case bus.KindNoticeStorageErr:
		if err, ok := evt.Payload.(error); ok {
			a.flash.Err(fmt.Errorf("storage: %w", err))
		}
	}
	a.flashBar.Update(a.flash.Current())
	a.refreshInfo()
}

// onAccount re-renders after an account change. Navigation resets only
// when the user signed in or out; a profile edit keeps the page stack.
func (a *App) onAccount() {
	signedIn := a.store.SignedIn()
	changed := signedIn != a.signedIn
	a.signedIn = signedIn
	if !signedIn {
		a.filter = ""
		a.thread.Reset()
		a.signIn.Reset()
	}
	a.refreshAll()
	if changed {
		a.home()
	}
}

// signOutIdle ends the session after the idle timeout. It runs on the UI
// goroutine.
func (a *App) signOutIdle() {
	if !a.store.SignedIn() {
		return
	}
	if err := a.store.SignOut(); err != nil {
		a.fail(err)
		return
	}
	a.flash.Info("Signed out due to inactivity")
	a.onAccount()
	a.flashBar.Update(a.flash.Current())
}

// home resets navigation to the landing page for the account state.
func (a *App) home() {
	if !a.store.SignedIn() {
		a.pages.Reset(pageSignIn)
		a.app.SetFocus(a.signIn)
		return
	}
	a.pages.Reset(pageChats)
	a.app.SetFocus(a.chatList)
}

func (a *App) push(name string) {
	a.pages.Push(name)
	a.app.SetFocus(a.components[name])
}

func (a *App) back() {
	current := a.pages.Current()
	if current == pageSignIn {
		return
	}
	if current == pageThread {
		a.store.ClearActiveChat()
	}
	if a.pages.Pop() == "" {
		return
	}
	a.app.SetFocus(a.components[a.pages.Current()])
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	if mode == ui.PromptFilter {
		a.prompt.SetText(a.filter)
	}
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.app.SetFocus(a.components[a.pages.Current()])
}

func (a *App) refreshAll() {
	a.refreshChats()
	a.refreshContacts()
	a.refreshThread()
	a.refreshInfo()
}

func (a *App) refreshChats() {
	all := a.store.Chats()
	visible := all
	if a.filter != "" {
		visible = a.store.FilterChats(a.filter)
	}
	a.chatList.Update(visible, len(all), a.filter, a.store.ActiveChatID())
}

func (a *App) refreshContacts() {
	a.contacts.Update(a.store.Contacts())
}

func (a *App) refreshThread() {
	id := a.thread.ChatID()
	if id == "" {
		return
	}
	if c, ok := a.store.Chat(id); ok {
		a.thread.Show(c)
	}
}

func (a *App) refreshInfo() {
	chats := a.store.Chats()
	unread := 0
	for _, c := range chats {
		unread += c.Unread
	}
	data := &ui.ProfileData{
		Session:  a.opts.Session,
		Backend:  a.opts.Backend,
		Chats:    len(chats),
		Contacts: len(a.store.Contacts()),
		Unread:   unread,
		Uptime:   a.opts.Now().Sub(a.started),
	}
	if u, ok := a.store.User(); ok {
		data.User = u.Username
	}
	if a.opts.Machine != nil {
		data.Status = string(a.opts.Machine.Current())
	}
	a.info.Update(data)
	a.logo.SetStatus(data.Status)
	a.crumbs.SetUnread(unread)
}

func (a *App) openChat(id string) {
	if id == "" {
		return
	}
	c, err := a.store.SetActiveChat(id)
	if err != nil {
		a.fail(err)
		return
	}
	a.showThread(c)
}

func (a *App) openContact(id string) {
	if id == "" {
		return
	}
	c, err := a.store.OpenContact(id)
	if err != nil {
		a.fail(err)
		return
	}
	a.showThread(c)
}

func (a *App) showThread(c chat.Chat) {
	a.thread.Show(c)
	a.pages.Push(pageThread)
	a.app.SetFocus(a.thread.Composer())
}

func (a *App) send(text string) {
	if _, err := a.store.AppendMessage(text, true); err != nil {
		a.fail(err)
		return
	}
	a.thread.ClearDraft()
}

func (a *App) searchActive(term string) {
	msgs, err := a.store.SearchActiveChat(term)
	if err != nil {
		a.fail(err)
		return
	}
	a.search.Update(term, msgs)
	a.push(pageSearch)
}

func (a *App) confirmDelete(id string) {
	c, ok := a.store.Chat(id)
	if !ok {
		return
	}
	a.ask(fmt.Sprintf("Delete your chat with %s?\nIts messages cannot be recovered.", c.Name), "Delete", func() {
		if err := a.store.DeleteChat(id); err != nil {
			a.fail(err)
			return
		}
		a.flash.Info("Chat deleted")
	})
}

// ask shows the confirmation modal; onConfirm runs only for the ok button.
func (a *App) ask(question, ok string, onConfirm func()) {
	a.confirm.ask(question, ok, func(confirmed bool) {
		a.back()
		if confirmed {
			onConfirm()
		}
	})
	a.push(pageConfirm)
}

func (a *App) requireUser() bool {
	if a.store.SignedIn() {
		return true
	}
	a.flash.Warn("Sign in first")
	return false
}

func (a *App) showAddContact() {
	if !a.requireUser() {
		return
	}
	a.contactForm.Reset()
	a.push(pageAddContact)
}

func (a *App) showAddLink() {
	if !a.requireUser() {
		return
	}
	a.linkForm.Reset()
	a.push(pageAddLink)
}

func (a *App) showLink() {
	link, err := a.store.ContactLink()
	if err != nil {
		a.fail(err)
		return
	}
	a.link.Show(link)
	a.push(pageLink)
}

func (a *App) signInSubmit(email, username string) {
	u, err := a.store.SignIn(email, username)
	if err != nil {
		a.fail(err)
		return
	}
	a.flash.Info("Welcome, " + u.Username)
}

func (a *App) addContact(name, email string, st chat.Status) {
	c, err := a.store.AddContact(name, email, st)
	if err != nil {
		a.fail(err)
		return
	}
	a.back()
	a.flash.Info("Added " + c.Name)
}

func (a *App) addContactFromLink(link, name string) {
	c, err := a.store.AddContactFromLink(link, name)
	if err != nil {
		a.fail(err)
		return
	}
	a.back()
	a.flash.Info("Added " + c.Name)
}

func (a *App) saveProfile(username, bio, avatar string) {
	if _, err := a.store.UpdateProfile(username, bio, avatar); err != nil {
		a.fail(err)
		return
	}
	a.back()
	a.flash.Info("Profile saved")
}

func (a *App) saveSettings(values map[string]string) {
	_, err := a.store.UpdateSettings(func(s *chat.Settings) error {
		for _, name := range chat.SettingNames {
			v, ok := values[name]
			if !ok {
				continue
			}
			if err := s.Set(name, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		a.fail(err)
		return
	}
	a.back()
	a.flash.Info("Settings saved; colors apply on next start")
}

func (a *App) export(path string) {
	if path == "" {
		path = filepath.Join(a.opts.BackupDir, session.BackupName(a.opts.Now()))
	}
	if err := a.store.ExportFile(path); err != nil {
		a.fail(err)
		return
	}
	a.flash.Info("Exported to " + path)
}

func (a *App) importFile(path string) {
	if path == "" {
		a.flash.Warn("usage: import <path>")
		return
	}
	a.ask(fmt.Sprintf("Replace all contacts, chats and settings with %s?", filepath.Base(path)), "Import", func() {
		if err := a.store.ImportFile(path); err != nil {
			a.fail(err)
			return
		}
		a.flash.Info("Imported " + path)
	})
}

func (a *App) fail(err error) {
	a.logger.Debug("action failed", zap.Error(err))
	a.flash.Err(err)
	a.flashBar.Update(a.flash.Current())
}

func (a *App) runCommand(line string) {
	cmd := ParseCommand(line)
	switch cmd.Name {
	case "quit":
		a.Stop()
	case "help":
		a.push(pageHelp)
	case "notices":
		a.notices.Update(a.flash.History())
		a.push(pageNotices)
	case "search":
		a.searchActive(cmd.Args)
	case "chat":
		if !a.requireUser() {
			return
		}
		matches := a.store.FilterChats(cmd.Args)
		if cmd.Args == "" || len(matches) == 0 {
			a.flash.Warn("no chat matches " + cmd.Args)
			return
		}
		a.openChat(matches[0].ID)
	case "contacts":
		if a.requireUser() {
			a.push(pageContacts)
		}
	case "add":
		a.showAddContact()
	case "add-link":
		a.showAddLink()
	case "link":
		a.showLink()
	case "export":
		a.export(cmd.Args)
	case "import":
		a.importFile(cmd.Args)
	case "profile":
		p, err := a.store.Profile()
		if err != nil {
			a.fail(err)
			return
		}
		a.profile.Load(p)
		a.push(pageProfile)
	case "settings":
		a.settings.Load(a.store.Settings())
		a.push(pageSettings)
	case "signout":
		if err := a.store.SignOut(); err != nil {
			a.fail(err)
		}
	case "delete-account":
		a.ask("Delete your account and every chat, contact and setting on this profile?", "Delete", func() {
			if err := a.store.DeleteAccount(); err != nil {
				a.fail(err)
			}
		})
	default:
		a.flash.Warn("unknown command: " + cmd.Name)
	}
}

// confirmModal is the yes/no dialog used before destructive actions.
type confirmModal struct {
	*tview.Modal
	done func(confirmed bool)
	ok   string
}

func newConfirmModal(theme *ui.Theme) *confirmModal {
	m := &confirmModal{Modal: tview.NewModal()}
	m.SetBackgroundColor(theme.BgColor)
	m.SetTextColor(theme.FgColor)
	m.SetBorderColor(theme.FlashWarnColor)
	m.SetButtonBackgroundColor(theme.BorderColor)
	m.SetButtonTextColor(theme.BgColor)
	m.SetDoneFunc(func(_ int, label string) {
		if m.done != nil {
			m.done(label == m.ok)
		}
	})
	return m
}

func (m *confirmModal) Name() string { return "Confirm" }

func (m *confirmModal) ask(question, ok string, done func(confirmed bool)) {
	m.ok = ok
	m.done = done
	m.ClearButtons()
	m.SetText(question)
	m.AddButtons([]string{"Cancel", ok})
	m.SetFocus(0)
}
