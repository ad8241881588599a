package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tastepass/tastepass/pkg/client"
	"github.com/tastepass/tastepass/pkg/domain"
	"github.com/tastepass/tastepass/pkg/session"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewForgot
	viewRestaurants
	viewAccount
)

// restoreDoneMsg signals that session restoration finished; protected
// screens stay hidden until it arrives.
type restoreDoneMsg struct{}

// sessionMsg carries a session snapshot pushed by the manager's
// subscriber into the event loop.
type sessionMsg domain.Session

// switchViewMsg asks the root model to change screens.
type switchViewMsg struct {
	view view
}

// alertMsg opens the modal alert overlay.
type alertMsg struct {
	title string
	body  string
}

// Logo shimmer animation.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// App is the root Bubbletea model.
type App struct {
	mgr     *session.Manager
	api     *client.Client
	version string

	view    view
	loading bool
	sess    domain.Session
	sessCh  chan domain.Session

	login       loginModel
	register    registerModel
	forgot      forgotModel
	restaurants restaurantsModel
	account     accountModel

	alertOpen  bool
	alertTitle string
	alertBody  string

	width  int
	height int
	frame  int
}

// NewApp creates the root TUI application. The manager's subscriber
// feed is bridged into the event loop through a buffered channel;
// bursts beyond the buffer are dropped because every drop is followed
// by a snapshot that supersedes it.
func NewApp(mgr *session.Manager, api *client.Client, version string) App {
	ch := make(chan domain.Session, 8)
	mgr.Subscribe(func(s domain.Session) {
		select {
		case ch <- s:
		default:
		}
	})
	return App{
		mgr:         mgr,
		api:         api,
		version:     version,
		loading:     true,
		sessCh:      ch,
		login:       newLoginModel(mgr),
		register:    newRegisterModel(mgr, api),
		forgot:      newForgotModel(api),
		restaurants: newRestaurantsModel(mgr, api),
		account:     newAccountModel(mgr),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.restoreCmd(), a.waitForSession())
}

func (a App) restoreCmd() tea.Cmd {
	mgr := a.mgr
	return func() tea.Msg {
		mgr.Restore() //nolint:errcheck // a failed restore leaves an empty session, which is handled
		return restoreDoneMsg{}
	}
}

func (a App) waitForSession() tea.Cmd {
	ch := a.sessCh
	return func() tea.Msg {
		return sessionMsg(<-ch)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.restaurants, _ = a.restaurants.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case restoreDoneMsg:
		a.loading = false
		a.sess = a.mgr.Snapshot()
		if a.sess.Authenticated {
			a.view = viewRestaurants
			a.restaurants.sess = a.sess
			a.account.sess = a.sess
			return a, a.restaurants.Init()
		}
		a.view = viewLogin
		return a, nil

	case sessionMsg:
		a.sess = domain.Session(msg)
		a.restaurants.sess = a.sess
		a.account.sess = a.sess
		// Logout (or forced re-auth) while on a protected screen.
		if !a.sess.Authenticated && (a.view == viewRestaurants || a.view == viewAccount) {
			a.view = viewLogin
			a.login = newLoginModel(a.mgr)
		}
		return a, a.waitForSession()

	case switchViewMsg:
		a.view = msg.view
		switch msg.view {
		case viewLogin:
			a.login = newLoginModel(a.mgr)
		case viewRegister:
			a.register = newRegisterModel(a.mgr, a.api)
		case viewForgot:
			a.forgot = newForgotModel(a.api)
		case viewRestaurants:
			return a, a.restaurants.Init()
		}
		return a, nil

	case alertMsg:
		a.alertOpen = true
		a.alertTitle = msg.title
		a.alertBody = msg.body
		return a, nil

	case tea.KeyMsg:
		// Alert overlay captures all keys when open.
		if a.alertOpen {
			switch msg.String() {
			case "enter", "esc", "o":
				a.alertOpen = false
			case "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Global keys only when no form has focus.
		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				if a.sess.Authenticated && a.view != viewRestaurants {
					a.view = viewRestaurants
					return a, a.restaurants.Init()
				}
				return a, nil
			case "2":
				if a.sess.Authenticated && a.view != viewAccount {
					a.view = viewAccount
					return a, nil
				}
				return a, nil
			}
		}
	}

	if a.loading {
		return a, nil
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewForgot:
		a.forgot, cmd = a.forgot.Update(msg)
	case viewRestaurants:
		a.restaurants, cmd = a.restaurants.Update(msg)
	case viewAccount:
		a.account, cmd = a.account.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewRegister, viewForgot:
		return true
	case viewAccount:
		return a.account.editing()
	}
	return false
}

func (a App) View() string {
	logo := renderLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Identity line under the logo.
	identity := ""
	if a.sess.Authenticated && a.sess.User != nil {
		parts := []string{a.sess.User.Name}
		if a.sess.User.Company.Name != "" {
			parts = append(parts, a.sess.User.Company.Name)
		}
		parts = append(parts, fmt.Sprintf("%d/%d pinned", len(a.sess.PinnedRestaurants), domain.MaxPinned))
		identity = metaStyle.Render(strings.Join(parts, " · "))
	}
	if identity != "" {
		pad := (a.width - lipgloss.Width(identity)) / 2
		if pad < 0 {
			pad = 0
		}
		header += "\n" + strings.Repeat(" ", pad) + identity
	} else {
		header += "\n"
	}

	if a.loading {
		body := "\n " + dimStyle.Render("loading...")
		return header + "\n" + body
	}

	tabBar := a.renderTabs()

	var body, help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+n", "sign up") + "  " + helpEntry("ctrl+f", "forgot password") + "  " + helpEntry("ctrl+c", "quit")
	case viewRegister:
		body = a.register.View()
		help = " " + a.register.helpKeys()
	case viewForgot:
		body = a.forgot.View()
		help = " " + a.forgot.helpKeys()
	case viewRestaurants:
		body = a.restaurants.View()
		help = " " + a.restaurants.helpKeys()
	case viewAccount:
		body = a.account.View()
		help = " " + a.account.helpKeys()
	}

	if a.alertOpen {
		body = a.renderAlert()
		help = " " + helpEntry("enter", "ok")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body.
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}

func (a App) renderTabs() string {
	if !a.sess.Authenticated {
		return ""
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Restaurants", viewRestaurants},
		{"2", "Account", viewAccount},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}

func (a App) renderAlert() string {
	content := alertTitleStyle.Render(a.alertTitle) + "\n\n" + normalStyle.Render(a.alertBody)
	box := alertBoxStyle.Render(content)
	pad := (a.width - lipgloss.Width(box)) / 2
	if pad < 0 {
		pad = 0
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, line := range strings.Split(box, "\n") {
		b.WriteString(strings.Repeat(" ", pad) + line + "\n")
	}
	return b.String()
}
