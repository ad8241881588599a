package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tastepass/tastepass/pkg/client"
	"github.com/tastepass/tastepass/pkg/domain"
	"github.com/tastepass/tastepass/pkg/session"
)

var errInvalidInvitation = errors.New("invalid invitation code")

type registerField int

const (
	regFirstName registerField = iota
	regLastName
	regEmail
	regInvitation
	regPassword
	regConfirm
	numRegisterFields
)

type registerState int

const (
	regStateForm registerState = iota
	regStateVerify
)

type registerModel struct {
	mgr *session.Manager
	api *client.Client

	state      registerState
	fields     [numRegisterFields]string
	focus      registerField
	submitting bool
	errMsg     string

	// verify step
	userID string
	otp    string
}

type registerResultMsg struct {
	user *client.RegisteredUser
	err  error
}

type verifyEmailResultMsg struct {
	message string
	err     error
}

func newRegisterModel(mgr *session.Manager, api *client.Client) registerModel {
	return registerModel{mgr: mgr, api: api}
}

func (m registerModel) helpKeys() string {
	if m.state == regStateVerify {
		return helpEntry("enter", "verify") + "  " + helpEntry("esc", "back to sign in")
	}
	return helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "create account") + "  " + helpEntry("esc", "back to sign in")
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, errInvalidInvitation) {
				m.errMsg = "That invitation code is not valid"
			} else {
				m.errMsg = "Registration failed. Please try again."
			}
			return m, nil
		}
		m.state = regStateVerify
		m.userID = msg.user.ID
		m.errMsg = ""
		return m, nil

	case verifyEmailResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = "Failed to verify. Please try again."
			return m, nil
		}
		return m, tea.Batch(
			func() tea.Msg { return switchViewMsg{view: viewLogin} },
			func() tea.Msg {
				return alertMsg{title: "Email verified", body: "Your account is ready. Sign in to continue."}
			},
		)

	case tea.KeyMsg:
		if m.state == regStateVerify {
			return m.updateVerifyKeys(msg)
		}
		return m.updateFormKeys(msg)
	}
	return m, nil
}

func (m registerModel) updateFormKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return switchViewMsg{view: viewLogin} }
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numRegisterFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numRegisterFields) % numRegisterFields
	case "enter":
		if m.focus == regConfirm {
			return m.submit()
		}
		m.focus++
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m registerModel) updateVerifyKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return switchViewMsg{view: viewLogin} }
	case "enter":
		if strings.TrimSpace(m.otp) == "" {
			m.errMsg = "Please enter the verification code"
			return m, nil
		}
		m.submitting = true
		api, userID, otp := m.api, m.userID, m.otp
		return m, func() tea.Msg {
			message, err := api.VerifyEmail(context.Background(), userID, otp)
			return verifyEmailResultMsg{message: message, err: err}
		}
	default:
		m.otp = editRune(m.otp, msg.String())
	}
	return m, nil
}

func (m registerModel) validate() string {
	if err := domain.ValidateName(m.fields[regFirstName]); err != nil {
		return "First name: " + err.Error()
	}
	if err := domain.ValidateName(m.fields[regLastName]); err != nil {
		return "Last name: " + err.Error()
	}
	if err := domain.ValidateEmail(strings.TrimSpace(m.fields[regEmail])); err != nil {
		return err.Error()
	}
	if strings.TrimSpace(m.fields[regInvitation]) == "" {
		return "Invitation code is required"
	}
	if err := domain.ValidatePassword(m.fields[regPassword]); err != nil {
		return err.Error()
	}
	if m.fields[regPassword] != m.fields[regConfirm] {
		return "Passwords do not match"
	}
	return ""
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	if msg := m.validate(); msg != "" {
		m.errMsg = msg
		return m, nil
	}

	m.submitting = true
	mgr, api := m.mgr, m.api
	in := session.RegisterInput{
		FirstName:  strings.TrimSpace(m.fields[regFirstName]),
		LastName:   strings.TrimSpace(m.fields[regLastName]),
		Email:      strings.TrimSpace(m.fields[regEmail]),
		Invitation: strings.TrimSpace(m.fields[regInvitation]),
		Password:   m.fields[regPassword],
	}
	return m, func() tea.Msg {
		// The invitation code is validated up front so a typo doesn't
		// cost the user a filled-in form.
		result, err := api.ValidateInvitation(context.Background(), in.Invitation)
		if err != nil || !result.Valid {
			return registerResultMsg{err: errInvalidInvitation}
		}
		in.Company = result.Company
		user, err := mgr.Register(context.Background(), in)
		return registerResultMsg{user: user, err: err}
	}
}

func (m registerModel) View() string {
	if m.state == regStateVerify {
		return m.viewVerify()
	}

	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Create account") + "\n\n")

	labels := [numRegisterFields]string{"first name", "last name", "email", "invitation code", "password", "confirm password"}
	for i := registerField(0); i < numRegisterFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == regPassword || i == regConfirm {
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
		b.WriteString(" " + dimStyle.Render("creating account..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	}
	return b.String()
}

func (m registerModel) viewVerify() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Verify your email") + "\n\n")
	b.WriteString(" " + normalStyle.Render("We sent a verification code to "+strings.TrimSpace(m.fields[regEmail])+".") + "\n\n")

	value := m.otp + "█"
	b.WriteString(" > " + selectedStyle.Render("code") + ": " + value + "\n\n")

	if m.submitting {
		b.WriteString(" " + dimStyle.Render("verifying..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	}
	return b.String()
}
