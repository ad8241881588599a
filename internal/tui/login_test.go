package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginRequiresBothFields(t *testing.T) {
	m := newLoginModel(newTestManager(t, nil))
	m.focus = loginPassword

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command with empty fields")
	}
	if m.errMsg != "Email and password are required" {
		t.Errorf("unexpected error message %q", m.errMsg)
	}
}

func TestLoginResultErrorShown(t *testing.T) {
	m := newLoginModel(newTestManager(t, nil))
	m.submitting = true

	m, _ = m.Update(loginResultMsg{err: errors.New("401")})
	if !strings.Contains(m.View(), "Login failed") {
		t.Errorf("expected login failure message, got:\n%s", m.View())
	}
	if m.submitting {
		t.Error("expected submitting flag cleared")
	}
}

func TestLoginSuccessSwitchesView(t *testing.T) {
	m := newLoginModel(newTestManager(t, nil))

	_, cmd := m.Update(loginResultMsg{})
	if cmd == nil {
		t.Fatal("expected view switch command on success")
	}
	msg, ok := cmd().(switchViewMsg)
	if !ok || msg.view != viewRestaurants {
		t.Errorf("expected switch to restaurants, got %#v", cmd())
	}
}

func TestLoginNavigatesToRegisterAndForgot(t *testing.T) {
	m := newLoginModel(newTestManager(t, nil))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if msg, ok := cmd().(switchViewMsg); !ok || msg.view != viewRegister {
		t.Errorf("expected switch to register on ctrl+n, got %#v", cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if msg, ok := cmd().(switchViewMsg); !ok || msg.view != viewForgot {
		t.Errorf("expected switch to forgot on ctrl+f, got %#v", cmd())
	}
}

func TestLoginMasksPassword(t *testing.T) {
	m := newLoginModel(newTestManager(t, nil))
	m.focus = loginPassword
	for _, r := range "secret" {
		m, _ = m.Update(keyRunes(string(r)))
	}

	view := m.View()
	if strings.Contains(view, "secret") {
		t.Errorf("password leaked into view:\n%s", view)
	}
	if !strings.Contains(view, "******") {
		t.Errorf("expected masked password, got:\n%s", view)
	}
}
