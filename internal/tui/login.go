package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tastepass/tastepass/pkg/session"
)

type loginField int

const (
	loginEmail loginField = iota
	loginPassword
	numLoginFields
)

type loginModel struct {
	mgr        *session.Manager
	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	errMsg     string
	statusMsg  string
}

type loginResultMsg struct {
	err error
}

func newLoginModel(mgr *session.Manager) loginModel {
	return loginModel{mgr: mgr}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			// Uniform non-specific failure; the log has the details.
			m.errMsg = "Login failed"
			return m, nil
		}
		// Success: the session change moves the app to the main stack.
		return m, func() tea.Msg { return switchViewMsg{view: viewRestaurants} }

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "ctrl+n":
		return m, func() tea.Msg { return switchViewMsg{view: viewRegister} }
	case "ctrl+f":
		return m, func() tea.Msg { return switchViewMsg{view: viewForgot} }
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus == loginPassword {
			return m.submit()
		}
		m.focus++
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[loginEmail])
	password := m.fields[loginPassword]
	if email == "" || password == "" {
		m.errMsg = "Email and password are required"
		return m, nil
	}

	m.submitting = true
	mgr := m.mgr
	return m, func() tea.Msg {
		err := mgr.Login(context.Background(), email, password)
		return loginResultMsg{err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Sign in") + "\n\n")

	labels := [numLoginFields]string{"email", "password"}
	for i := loginField(0); i < numLoginFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == loginPassword {
			value = maskPassword(value)
		}
		if i == m.focus {
			value += "█"
		} else if value == "" {
			value = inputPlaceholderStyle.Render("...")
		}
		b.WriteString(" " + cursor + " " + style.Render(labels[i]) + ": " + value + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("signing in..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	} else if m.statusMsg != "" {
		b.WriteString(" " + statusStyle.Render(m.statusMsg))
	}
	return b.String()
}
