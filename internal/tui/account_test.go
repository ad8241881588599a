package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestAccountModel(t *testing.T) accountModel {
	t.Helper()
	sess := testSession("r1")
	m := newAccountModel(newTestManager(t, sess))
	m.sess = *sess
	return m
}

func TestAccountShowsProfile(t *testing.T) {
	m := newTestAccountModel(t)

	view := m.View()
	for _, want := range []string{"Dana Reyes", "dana@example.com", "Acme"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in account view, got:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "1") || !strings.Contains(view, "of 2") {
		t.Errorf("expected pinned count in account view, got:\n%s", view)
	}
}

func TestAccountEditToggles(t *testing.T) {
	m := newTestAccountModel(t)
	if m.editing() {
		t.Fatal("expected profile mode initially")
	}

	m, _ = m.Update(keyRunes("e"))
	if !m.editing() {
		t.Fatal("expected edit mode after e")
	}
	if !strings.Contains(m.View(), "Change password") {
		t.Errorf("expected password form, got:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing() {
		t.Error("expected esc to cancel edit mode")
	}
}

func TestAccountPasswordMismatchRejected(t *testing.T) {
	m := newTestAccountModel(t)
	m, _ = m.Update(keyRunes("e"))
	m.fields[pwCurrent] = "oldpass!!"
	m.fields[pwNew] = "newpass!123"
	m.fields[pwConfirm] = "different!123"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no network command on mismatch")
	}
	if m.errMsg != "Passwords do not match" {
		t.Errorf("unexpected error message %q", m.errMsg)
	}
}

func TestAccountWeakPasswordRejected(t *testing.T) {
	m := newTestAccountModel(t)
	m, _ = m.Update(keyRunes("e"))
	m.fields[pwCurrent] = "oldpass!!"
	m.fields[pwNew] = "short"
	m.fields[pwConfirm] = "short"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no network command for a weak password")
	}
	if m.errMsg == "" {
		t.Error("expected a validation error message")
	}
}

func TestAccountPasswordChangedShowsAlert(t *testing.T) {
	m := newTestAccountModel(t)
	m, _ = m.Update(keyRunes("e"))

	_, cmd := m.Update(passwordChangedMsg{message: "Password updated."})
	if cmd == nil {
		t.Fatal("expected alert command after password change")
	}
	msg, ok := cmd().(alertMsg)
	if !ok {
		t.Fatalf("expected alertMsg, got %T", cmd())
	}
	if !strings.Contains(msg.body, "Sign in with the new password") {
		t.Errorf("expected re-auth hint in alert body, got %q", msg.body)
	}
}

func TestAccountLogout(t *testing.T) {
	sess := testSession("r1")
	mgr := newTestManager(t, sess)
	m := newAccountModel(mgr)
	m.sess = *sess

	_, cmd := m.Update(keyRunes("l"))
	if cmd == nil {
		t.Fatal("expected logout command, got nil")
	}
	cmd()

	snap := mgr.Snapshot()
	if snap.Authenticated {
		t.Error("expected session to be logged out")
	}
	if len(snap.PinnedRestaurants) != 1 {
		t.Errorf("expected pins to survive logout in memory, got %v", snap.PinnedRestaurants)
	}
}
