package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func fillForgotForm(m forgotModel) forgotModel {
	m.fields[forgotEmail] = "dana@example.com"
	m.fields[forgotNewPassword] = "hunter2!x"
	m.fields[forgotConfirm] = "hunter2!x"
	m.focus = forgotConfirm
	return m
}

func TestForgotRejectsBadEmail(t *testing.T) {
	m := fillForgotForm(newForgotModel(nil))
	m.fields[forgotEmail] = "nope"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no network command for bad email")
	}
	if !strings.Contains(m.errMsg, "email") {
		t.Errorf("expected email error, got %q", m.errMsg)
	}
}

func TestForgotRejectsMismatchedPasswords(t *testing.T) {
	m := fillForgotForm(newForgotModel(nil))
	m.fields[forgotConfirm] = "other2!xyz"

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.errMsg != "Passwords do not match" {
		t.Errorf("unexpected error message %q", m.errMsg)
	}
}

func TestForgotRequestMovesToVerify(t *testing.T) {
	m := fillForgotForm(newForgotModel(nil))
	m.submitting = true

	m, _ = m.Update(forgotRequestMsg{message: "Code sent."})
	if m.state != forgotStateVerify {
		t.Fatal("expected verify step after request")
	}
	view := m.View()
	if !strings.Contains(view, "dana@example.com") {
		t.Errorf("expected email echoed in verify prompt, got:\n%s", view)
	}
	if !strings.Contains(view, "Code sent.") {
		t.Errorf("expected server message in verify prompt, got:\n%s", view)
	}
}

func TestForgotRequestFailureShown(t *testing.T) {
	m := fillForgotForm(newForgotModel(nil))
	m.submitting = true

	m, _ = m.Update(forgotRequestMsg{err: errors.New("400")})
	if m.state != forgotStateRequest {
		t.Error("expected to stay on the request step")
	}
	if m.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestForgotVerifyRequiresCode(t *testing.T) {
	m := fillForgotForm(newForgotModel(nil))
	m.state = forgotStateVerify

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no network command with empty code")
	}
	if m.errMsg == "" {
		t.Error("expected a validation error message")
	}
}

func TestForgotVerifySuccessReturnsToLogin(t *testing.T) {
	m := fillForgotForm(newForgotModel(nil))
	m.state = forgotStateVerify
	m.submitting = true

	_, cmd := m.Update(forgotVerifyMsg{message: "done"})
	if cmd == nil {
		t.Fatal("expected navigation command after reset")
	}
}

func TestForgotEscReturnsToLogin(t *testing.T) {
	m := newForgotModel(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if msg, ok := cmd().(switchViewMsg); !ok || msg.view != viewLogin {
		t.Errorf("expected switch to login on esc, got %#v", cmd())
	}
}
