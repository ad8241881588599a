package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tastepass/tastepass/pkg/client"
)

func newTestRegisterModel(t *testing.T) registerModel {
	t.Helper()
	return newRegisterModel(newTestManager(t, nil), nil)
}

func fillRegisterForm(m registerModel) registerModel {
	m.fields[regFirstName] = "Dana"
	m.fields[regLastName] = "Reyes"
	m.fields[regEmail] = "dana@example.com"
	m.fields[regInvitation] = "ACME-42"
	m.fields[regPassword] = "hunter2!x"
	m.fields[regConfirm] = "hunter2!x"
	return m
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	m := fillRegisterForm(newTestRegisterModel(t))
	m.fields[regFirstName] = ""

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no network command for invalid form")
	}
	if !strings.Contains(m.errMsg, "First name") {
		t.Errorf("expected first-name error, got %q", m.errMsg)
	}
}

func TestRegisterRejectsLongName(t *testing.T) {
	m := fillRegisterForm(newTestRegisterModel(t))
	m.fields[regLastName] = strings.Repeat("x", 21)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.errMsg, "20 characters") {
		t.Errorf("expected name-length error, got %q", m.errMsg)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	m := fillRegisterForm(newTestRegisterModel(t))
	m.fields[regEmail] = "not-an-email"

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.errMsg, "email") {
		t.Errorf("expected email error, got %q", m.errMsg)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	m := fillRegisterForm(newTestRegisterModel(t))
	m.fields[regPassword] = "longenoughbutplain"
	m.fields[regConfirm] = "longenoughbutplain"

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.errMsg, "special character") {
		t.Errorf("expected password-policy error, got %q", m.errMsg)
	}
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	m := fillRegisterForm(newTestRegisterModel(t))
	m.fields[regConfirm] = "other2!xyz"

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.errMsg != "Passwords do not match" {
		t.Errorf("unexpected error message %q", m.errMsg)
	}
}

func TestRegisterInvalidInvitationMessage(t *testing.T) {
	m := newTestRegisterModel(t)

	m, _ = m.Update(registerResultMsg{err: errInvalidInvitation})
	if !strings.Contains(m.errMsg, "invitation code") {
		t.Errorf("expected invitation error, got %q", m.errMsg)
	}
}

func TestRegisterSuccessMovesToVerify(t *testing.T) {
	m := fillRegisterForm(newTestRegisterModel(t))

	m, _ = m.Update(registerResultMsg{user: &client.RegisteredUser{ID: "u9"}})
	if m.state != regStateVerify {
		t.Fatal("expected verify step after registration")
	}
	if m.userID != "u9" {
		t.Errorf("expected userID 'u9', got %q", m.userID)
	}
	if !strings.Contains(m.View(), "Verify your email") {
		t.Errorf("expected verification prompt, got:\n%s", m.View())
	}
}

func TestRegisterVerifyRequiresCode(t *testing.T) {
	m := newTestRegisterModel(t)
	m.state = regStateVerify

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no network command with empty code")
	}
	if m.errMsg == "" {
		t.Error("expected a validation error message")
	}
}

func TestRegisterVerifySuccessReturnsToLogin(t *testing.T) {
	m := newTestRegisterModel(t)
	m.state = regStateVerify
	m.submitting = true

	m, cmd := m.Update(verifyEmailResultMsg{message: "verified"})
	if cmd == nil {
		t.Fatal("expected navigation command after verification")
	}
	if m.submitting {
		t.Error("expected submitting flag cleared")
	}
}

func TestRegisterEscReturnsToLogin(t *testing.T) {
	m := newTestRegisterModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if msg, ok := cmd().(switchViewMsg); !ok || msg.view != viewLogin {
		t.Errorf("expected switch to login on esc, got %#v", cmd())
	}
}
