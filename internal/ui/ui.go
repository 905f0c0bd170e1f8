package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/sandwipshanto/relevant/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	FeedView
	SavedView
	DetailView
	ProfileView
)

func (v ViewState) String() string {
	switch v {
	case LoginView:
		return "login"
	case FeedView:
		return "feed"
	case SavedView:
		return "saved"
	case DetailView:
		return "detail"
	case ProfileView:
		return "profile"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *session.Session
	client  *api.Client

	feedPager  *query.Pager
	savedPager *query.Pager

	width  int
	height int

	feedList   list.Model
	savedList  list.Model
	selected   *models.Content
	returnView ViewState

	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loginErr      error

	status string
	err    error
	help   help.Model
	keys   keyMap
}

type sessionLoadedMsg struct {
	state session.State
	err   error
}

type loggedInMsg struct {
	user *models.User
	err  error
}

type pageLoadedMsg struct {
	view ViewState
	err  error
}

type interactionMsg struct {
	action string
	id     string
	uc     *models.UserContent
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Session, client *api.Client, pageSize int, minRelevance float64) *Model {
	if pageSize <= 0 {
		pageSize = 10
	}

	feedPager := query.NewPager(func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
		cp, err := client.Feed(ctx, api.FeedParams{Page: page, Limit: limit, MinRelevance: minRelevance})
		if err != nil {
			return nil, nil, err
		}
		return &cp.Pagination, cp.Items, nil
	}, pageSize)

	savedPager := query.NewPager(func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
		cp, err := client.Saved(ctx, api.PageParams{Page: page, Limit: limit})
		if err != nil {
			return nil, nil, err
		}
		return &cp.Pagination, cp.Items, nil
	}, pageSize)

	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return &Model{
		ctx:           ctx,
		view:          LoginView,
		session:       sess,
		client:        client,
		feedPager:     feedPager,
		savedPager:    savedPager,
		emailInput:    email,
		passwordInput: password,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init restores the persisted session before showing any content.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		err := m.session.Load(m.ctx)
		return sessionLoadedMsg{state: m.session.State(), err: err}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case FeedView, SavedView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		}

	case sessionLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.state == session.Authenticated {
			return m.enter(FeedView)
		}
		m.view = LoginView
		return m, nil

	case loggedInMsg:
		if msg.err != nil {
			m.loginErr = msg.err
			return m, nil
		}
		m.loginErr = nil
		m.passwordInput.SetValue("")

		// Resume where the guard interrupted, default to the feed.
		dest := FeedView
		if m.session.ConsumeReturnTo() == SavedView.String() {
			dest = SavedView
		}
		return m.enter(dest)

	case pageLoadedMsg:
		if msg.err != nil {
			if m.session.HandleUnauthorized(msg.err) {
				m.view = LoginView
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.syncLists()
		return m, nil

	case interactionMsg:
		if msg.err != nil {
			if m.session.HandleUnauthorized(msg.err) {
				m.view = LoginView
				return m, nil
			}
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("%s: %s", msg.action, msg.id)
		m.applyOverlay(msg.id, msg.uc, msg.action)
		m.syncLists()
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != LoginView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case LoginView:
		return m.renderLogin()
	case FeedView:
		return m.renderList(m.feedList, m.feedPager)
	case SavedView:
		return m.renderList(m.savedList, m.savedPager)
	case DetailView:
		return m.renderDetail()
	case ProfileView:
		return m.renderProfile()
	default:
		return ""
	}
}

// enter switches to a view, enforcing the auth guard and loading its data.
func (m *Model) enter(view ViewState) (tea.Model, tea.Cmd) {
	if view != LoginView && m.session.State() != session.Authenticated {
		m.session.SetReturnTo(view.String())
		m.view = LoginView
		return m, nil
	}

	m.view = view
	switch view {
	case FeedView:
		return m, m.loadPage(FeedView, m.feedPager.Load)
	case SavedView:
		return m, m.loadPage(SavedView, m.savedPager.Load)
	}
	return m, nil
}

func (m *Model) loadPage(view ViewState, load func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{view: view, err: load(m.ctx)}
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.loginErr = fmt.Errorf("email and password are required")
			return m, nil
		}
		return m, func() tea.Msg {
			user, err := m.session.Login(m.ctx, email, password)
			return loggedInMsg{user: user, err: err}
		}
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active, pager := m.activeList()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.feed):
		return m.enter(FeedView)
	case key.Matches(msg, m.keys.saved):
		return m.enter(SavedView)
	case key.Matches(msg, m.keys.profile):
		return m.enter(ProfileView)
	case key.Matches(msg, m.keys.refresh):
		pager.Reset()
		return m, m.loadPage(m.view, pager.Load)
	case key.Matches(msg, m.keys.enter):
		if item, ok := active.SelectedItem().(contentItem); ok {
			content := item.content
			m.selected = &content
			m.returnView = m.view
			m.view = DetailView
			return m, m.markViewed(content.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.save):
		if item, ok := active.SelectedItem().(contentItem); ok {
			return m, m.toggleSave(item.content)
		}
		return m, nil
	case key.Matches(msg, m.keys.like):
		if item, ok := active.SelectedItem().(contentItem); ok {
			return m, m.toggleLike(item.content)
		}
		return m, nil
	case key.Matches(msg, m.keys.dismiss):
		if m.view == FeedView {
			if item, ok := active.SelectedItem().(contentItem); ok {
				return m, m.dismiss(item.content.ID)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	updated, cmd := active.Update(msg)
	m.setActiveList(updated)

	// Infinite scroll: reaching the end of the accumulated items requests
	// the next page. The pager refuses duplicates while one is in flight.
	if updated.Index() >= len(updated.Items())-1 && pager.HasMore() && !pager.Loading() {
		return m, tea.Batch(cmd, m.loadPage(m.view, pager.LoadMore))
	}
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		if m.returnView == SavedView {
			m.view = SavedView
		} else {
			m.view = FeedView
		}
		return m, nil
	case key.Matches(msg, m.keys.save):
		if m.selected != nil {
			return m, m.toggleSave(*m.selected)
		}
	case key.Matches(msg, m.keys.like):
		if m.selected != nil {
			return m, m.toggleLike(*m.selected)
		}
	}
	return m, nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.feed):
		return m.enter(FeedView)
	case key.Matches(msg, m.keys.saved):
		return m.enter(SavedView)
	}
	return m, nil
}

func (m *Model) toggleSave(content models.Content) tea.Cmd {
	saved := !content.IsSaved()
	return func() tea.Msg {
		uc, err := m.client.Save(m.ctx, content.ID, saved)
		action := "saved"
		if !saved {
			action = "unsaved"
		}
		return interactionMsg{action: action, id: content.ID, uc: uc, err: err}
	}
}

func (m *Model) toggleLike(content models.Content) tea.Cmd {
	liked := !content.IsLiked()
	return func() tea.Msg {
		uc, err := m.client.Like(m.ctx, content.ID, liked)
		action := "liked"
		if !liked {
			action = "unliked"
		}
		return interactionMsg{action: action, id: content.ID, uc: uc, err: err}
	}
}

func (m *Model) dismiss(id string) tea.Cmd {
	return func() tea.Msg {
		uc, err := m.client.Dismiss(m.ctx, id)
		return interactionMsg{action: "dismissed", id: id, uc: uc, err: err}
	}
}

func (m *Model) markViewed(id string) tea.Cmd {
	return func() tea.Msg {
		uc, err := m.client.View(m.ctx, id)
		return interactionMsg{action: "viewed", id: id, uc: uc, err: err}
	}
}

// applyOverlay patches the confirmed interaction state into the pagers'
// accumulated items so the lists reflect the server without a refetch.
func (m *Model) applyOverlay(id string, uc *models.UserContent, action string) {
	if m.selected != nil && m.selected.ID == id && uc != nil {
		m.selected.UserContent = uc
	}
	if action == "dismissed" {
		m.feedPager.Remove(id)
		return
	}
	if uc != nil {
		m.feedPager.Patch(id, uc)
		m.savedPager.Patch(id, uc)
	}
}

func (m *Model) activeList() (list.Model, *query.Pager) {
	if m.view == SavedView {
		return m.savedList, m.savedPager
	}
	return m.feedList, m.feedPager
}

func (m *Model) setActiveList(l list.Model) {
	if m.view == SavedView {
		m.savedList = l
		return
	}
	m.feedList = l
}

// syncLists rebuilds the list models from the pagers' accumulated items.
func (m *Model) syncLists() {
	m.feedList = m.rebuildList(m.feedList, "Content Feed", m.feedPager.Items())
	m.savedList = m.rebuildList(m.savedList, "Saved Content", m.savedPager.Items())
}

func (m *Model) rebuildList(current list.Model, title string, contents []models.Content) list.Model {
	items := make([]list.Item, len(contents))
	for i, c := range contents {
		items[i] = contentItem{content: c}
	}

	index := current.Index()
	l := list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	l.Title = title
	l.SetShowHelp(false)
	if index > 0 && index < len(items) {
		l.Select(index)
	}
	return l
}

func (m *Model) resizeLists() {
	m.feedList.SetSize(m.width-4, m.height-8)
	m.savedList.SetSize(m.width-4, m.height-8)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FeedView:
		m.feedList, cmd = m.feedList.Update(msg)
	case SavedView:
		m.savedList, cmd = m.savedList.Update(msg)
	}
	return m, cmd
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in to Relevant")

	var errLine string
	if m.loginErr != nil {
		errLine = "\n" + styles.err.Render(m.loginErr.Error())
	}

	helpLine := styles.help.Render("tab: switch field • enter: sign in • ctrl+c: quit")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n\n%s", title, m.emailInput.View(), m.passwordInput.View(), errLine, helpLine)
}

func (m *Model) renderList(l list.Model, pager *query.Pager) string {
	var footer string
	if pager.Loading() {
		footer = styles.warn.Render("Loading...")
	} else if !pager.HasMore() {
		footer = styles.help.Render("End of list")
	}
	if m.status != "" {
		footer = fmt.Sprintf("%s  %s", styles.ok.Render(m.status), footer)
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.enter, m.keys.save, m.keys.like, m.keys.dismiss,
		m.keys.feed, m.keys.saved, m.keys.profile, m.keys.quit,
	})
	return fmt.Sprintf("%s\n%s\n%s", l.View(), footer, helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("Nothing selected\n\nPress esc to go back")
	}
	c := m.selected

	title := styles.title.Render(c.Title)
	var b strings.Builder
	b.WriteString(title + "\n")

	if c.SourceChannel.Name != "" {
		b.WriteString(fmt.Sprintf("%s (%s)\n", c.SourceChannel.Name, c.Source))
	}
	b.WriteString(c.URL + "\n\n")

	if c.Summary != "" {
		b.WriteString(c.Summary + "\n\n")
	} else if c.Description != "" {
		b.WriteString(c.Description + "\n\n")
	}

	for _, h := range c.Highlights {
		b.WriteString("  • " + h + "\n")
	}
	if len(c.Tags) > 0 {
		b.WriteString("\n" + styles.help.Render(strings.Join(c.Tags, ", ")) + "\n")
	}

	var flags []string
	if c.IsSaved() {
		flags = append(flags, styles.ok.Render("saved"))
	}
	if c.IsLiked() {
		flags = append(flags, styles.ok.Render("liked"))
	}
	if len(flags) > 0 {
		b.WriteString("\n" + strings.Join(flags, " ") + "\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.save, m.keys.like, m.keys.back, m.keys.quit})
	return b.String() + "\n" + helpView
}

func (m *Model) renderProfile() string {
	user := m.session.User()
	if user == nil {
		return styles.err.Render("Not signed in")
	}

	title := styles.title.Render("Profile")
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(fmt.Sprintf("Name: %s\nEmail: %s\n", user.Name, user.Email))

	if len(user.Interests) > 0 {
		b.WriteString("\nInterests:\n")
		for category, interest := range user.Interests {
			b.WriteString(fmt.Sprintf("  %s (priority %d): %s\n",
				category, interest.Priority, strings.Join(interest.Keywords, ", ")))
		}
	}
	if user.Connection != nil && user.Connection.Connected {
		b.WriteString("\n" + styles.ok.Render("YouTube connected") + "\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.feed, m.keys.saved, m.keys.quit})
	return b.String() + "\n" + helpView
}
