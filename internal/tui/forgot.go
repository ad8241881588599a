package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tastepass/tastepass/pkg/client"
	"github.com/tastepass/tastepass/pkg/domain"
)

type forgotField int

const (
	forgotEmail forgotField = iota
	forgotNewPassword
	forgotConfirm
	numForgotFields
)

type forgotState int

const (
	forgotStateRequest forgotState = iota
	forgotStateVerify
)

// forgotModel drives the two-step password reset: request a code by
// email with the desired new password, then confirm with the mailed code.
type forgotModel struct {
	api *client.Client

	state      forgotState
	fields     [numForgotFields]string
	focus      forgotField
	submitting bool
	errMsg     string
	statusMsg  string
	code       string
}

type forgotRequestMsg struct {
	message string
	err     error
}

type forgotVerifyMsg struct {
	message string
	err     error
}

func newForgotModel(api *client.Client) forgotModel {
	return forgotModel{api: api}
}

func (m forgotModel) helpKeys() string {
	if m.state == forgotStateVerify {
		return helpEntry("enter", "confirm code") + "  " + helpEntry("esc", "back to sign in")
	}
	return helpEntry("tab", "next field") + "  " + helpEntry("enter", "send code") + "  " + helpEntry("esc", "back to sign in")
}

func (m forgotModel) Update(msg tea.Msg) (forgotModel, tea.Cmd) {
	switch msg := msg.(type) {
	case forgotRequestMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = "Could not start the reset. Check the email address."
			return m, nil
		}
		m.state = forgotStateVerify
		m.statusMsg = msg.message
		m.errMsg = ""
		return m, nil

	case forgotVerifyMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = "Verification failed. Check the code and try again."
			return m, nil
		}
		return m, tea.Batch(
			func() tea.Msg { return switchViewMsg{view: viewLogin} },
			func() tea.Msg {
				return alertMsg{title: "Password reset", body: "Your password was changed. Sign in with the new one."}
			},
		)

	case tea.KeyMsg:
		if m.state == forgotStateVerify {
			return m.updateVerifyKeys(msg)
		}
		return m.updateRequestKeys(msg)
	}
	return m, nil
}

func (m forgotModel) updateRequestKeys(msg tea.KeyMsg) (forgotModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return switchViewMsg{view: viewLogin} }
	case "tab", "down":
		m.focus = (m.focus + 1) % numForgotFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numForgotFields) % numForgotFields
	case "enter":
		if m.focus == forgotConfirm {
			return m.submitRequest()
		}
		m.focus++
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m forgotModel) updateVerifyKeys(msg tea.KeyMsg) (forgotModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return switchViewMsg{view: viewLogin} }
	case "enter":
		if strings.TrimSpace(m.code) == "" {
			m.errMsg = "Please enter the verification code"
			return m, nil
		}
		m.submitting = true
		api := m.api
		email := strings.TrimSpace(m.fields[forgotEmail])
		newPassword := m.fields[forgotNewPassword]
		code := strings.TrimSpace(m.code)
		return m, func() tea.Msg {
			message, err := api.VerifyForgotPassword(context.Background(), email, newPassword, code)
			return forgotVerifyMsg{message: message, err: err}
		}
	default:
		m.code = editRune(m.code, msg.String())
	}
	return m, nil
}

func (m forgotModel) submitRequest() (forgotModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[forgotEmail])
	if err := domain.ValidateEmail(email); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if err := domain.ValidatePassword(m.fields[forgotNewPassword]); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if m.fields[forgotNewPassword] != m.fields[forgotConfirm] {
		m.errMsg = "Passwords do not match"
		return m, nil
	}

	m.submitting = true
	api := m.api
	newPassword := m.fields[forgotNewPassword]
	return m, func() tea.Msg {
		message, err := api.ForgotPassword(context.Background(), email, newPassword)
		return forgotRequestMsg{message: message, err: err}
	}
}

func (m forgotModel) View() string {
	if m.state == forgotStateVerify {
		return m.viewVerify()
	}

	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Reset password") + "\n\n")

	labels := [numForgotFields]string{"email", "new password", "confirm password"}
	for i := forgotField(0); i < numForgotFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i != forgotEmail {
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
		b.WriteString(" " + dimStyle.Render("sending verification code..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	}
	return b.String()
}

func (m forgotModel) viewVerify() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Check your inbox") + "\n\n")
	b.WriteString(" " + normalStyle.Render("A verification code was sent to "+strings.TrimSpace(m.fields[forgotEmail])+".") + "\n\n")

	b.WriteString(" > " + selectedStyle.Render("code") + ": " + m.code + "█\n\n")

	if m.submitting {
		b.WriteString(" " + dimStyle.Render("confirming..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	} else if m.statusMsg != "" {
		b.WriteString(" " + statusStyle.Render(m.statusMsg))
	}
	return b.String()
}
