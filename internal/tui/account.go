package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tastepass/tastepass/pkg/domain"
	"github.com/tastepass/tastepass/pkg/session"
)

type passwordField int

const (
	pwCurrent passwordField = iota
	pwNew
	pwConfirm
	numPasswordFields
)

// accountModel shows the signed-in user's profile and hosts the
// password change form. A successful change logs the session out, so
// the app routes back to sign in on the session update.
type accountModel struct {
	mgr *session.Manager

	sess domain.Session

	editingPassword bool
	fields          [numPasswordFields]string
	focus           passwordField
	submitting      bool
	errMsg          string
}

type passwordChangedMsg struct {
	message string
	err     error
}

func newAccountModel(mgr *session.Manager) accountModel {
	return accountModel{mgr: mgr}
}

func (m accountModel) editing() bool {
	return m.editingPassword
}

func (m accountModel) helpKeys() string {
	if m.editingPassword {
		return helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("e", "change password") + "  " + helpEntry("l", "log out") + "  " + helpEntry("q", "quit")
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil

	case passwordChangedMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrNotAuthenticated) {
				m.errMsg = "You are no longer signed in"
			} else {
				m.errMsg = "Password change failed. Check the current password."
			}
			return m, nil
		}
		// The manager already logged the session out; the app follows the
		// session update to the sign-in screen. The alert explains why.
		body := msg.message
		if body == "" {
			body = "Your password was changed."
		}
		return m, func() tea.Msg {
			return alertMsg{title: "Password changed", body: body + " Sign in with the new password."}
		}

	case tea.KeyMsg:
		if m.editingPassword {
			return m.updateEditKeys(msg)
		}
		return m.updateProfileKeys(msg)
	}
	return m, nil
}

func (m accountModel) updateProfileKeys(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.editingPassword = true
		m.fields = [numPasswordFields]string{}
		m.focus = pwCurrent
		m.errMsg = ""
	case "l":
		mgr := m.mgr
		return m, func() tea.Msg {
			mgr.Logout()
			return nil
		}
	}
	return m, nil
}

func (m accountModel) updateEditKeys(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		m.editingPassword = false
	case "tab", "down":
		m.focus = (m.focus + 1) % numPasswordFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numPasswordFields) % numPasswordFields
	case "enter":
		if m.focus == pwConfirm {
			return m.submit()
		}
		m.focus++
	case "ctrl+s":
		return m.submit()
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m accountModel) submit() (accountModel, tea.Cmd) {
	if m.fields[pwCurrent] == "" {
		m.errMsg = "Current password is required"
		return m, nil
	}
	if err := domain.ValidatePassword(m.fields[pwNew]); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if m.fields[pwNew] != m.fields[pwConfirm] {
		m.errMsg = "Passwords do not match"
		return m, nil
	}

	m.submitting = true
	mgr := m.mgr
	current, next := m.fields[pwCurrent], m.fields[pwNew]
	return m, func() tea.Msg {
		message, err := mgr.UpdatePassword(context.Background(), current, next)
		return passwordChangedMsg{message: message, err: err}
	}
}

func (m accountModel) View() string {
	if m.editingPassword {
		return m.viewEdit()
	}

	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Account") + "\n\n")

	if m.sess.User == nil {
		b.WriteString(" " + dimStyle.Render("Not signed in.") + "\n")
		return b.String()
	}

	u := m.sess.User
	b.WriteString(" " + metaStyle.Render("name:") + "     " + normalStyle.Render(u.Name) + "\n")
	b.WriteString(" " + metaStyle.Render("email:") + "    " + normalStyle.Render(u.Email) + "\n")
	if u.Company.Name != "" {
		b.WriteString(" " + metaStyle.Render("company:") + "  " + normalStyle.Render(u.Company.Name) + "\n")
	}
	b.WriteString(" " + metaStyle.Render("pinned:") + "   " +
		pinStyle.Render(fmt.Sprintf("%d", len(m.sess.PinnedRestaurants))) +
		metaStyle.Render(fmt.Sprintf(" of %d", domain.MaxPinned)) + "\n")

	return b.String()
}

func (m accountModel) viewEdit() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Change password") + "\n\n")

	labels := [numPasswordFields]string{"current password", "new password", "confirm password"}
	for i := passwordField(0); i < numPasswordFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := maskPassword(m.fields[i])
		if i == m.focus {
			value += "█"
		} else if value == "" {
			value = inputPlaceholderStyle.Render("...")
		}
		b.WriteString(" " + cursor + " " + style.Render(labels[i]) + ": " + value + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("saving..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	}
	return b.String()
}
