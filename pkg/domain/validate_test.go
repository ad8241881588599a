package domain

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	if err := ValidateName("Alex"); err != nil {
		t.Errorf("ValidateName(Alex) = %v, want nil", err)
	}
	if err := ValidateName(""); err == nil {
		t.Error("expected error for empty name")
	}
	if err := ValidateName(strings.Repeat("a", 21)); err == nil {
		t.Error("expected error for 21-char name")
	}
	if err := ValidateName(strings.Repeat("a", 20)); err != nil {
		t.Errorf("20-char name should pass, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	good := []string{"a@b.com", "first.last@sub.example.org"}
	for _, e := range good {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}
	bad := []string{"", "plain", "a@b", "a b@c.com", "@c.com"}
	for _, e := range bad {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret1!"); err != nil {
		t.Errorf("ValidatePassword(secret1!) = %v, want nil", err)
	}
	if err := ValidatePassword("short!"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword("longenoughbutplain"); err == nil {
		t.Error("expected error for password without special character")
	}
}
