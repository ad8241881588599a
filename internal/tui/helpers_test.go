package tui

import (
	"strings"
	"testing"
)

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	got := truncStr("a very long restaurant name", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if len([]rune(got)) != 10 {
		t.Errorf("expected 10 runes, got %d in %q", len([]rune(got)), got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(11, true); got != "$11.00" {
		t.Errorf("expected $11.00, got %q", got)
	}
	if got := formatPrice(0, false); got != "N/A" {
		t.Errorf("expected N/A, got %q", got)
	}
}

func TestRenderBarcodeDeterministic(t *testing.T) {
	a := renderBarcode("55501")
	b := renderBarcode("55501")
	if a != b {
		t.Error("expected identical bars for the same code")
	}
	if a == renderBarcode("99999") {
		t.Error("expected different bars for different codes")
	}
	if !strings.Contains(a, "55501") {
		t.Errorf("expected code printed under the bars, got:\n%s", a)
	}
}

func TestRenderBarcodeEmpty(t *testing.T) {
	if got := renderBarcode(""); got != "" {
		t.Errorf("expected empty output for empty code, got %q", got)
	}
}

func TestMaskPassword(t *testing.T) {
	if got := maskPassword("hünter2"); got != "*******" {
		t.Errorf("expected 7 stars, got %q", got)
	}
	if got := maskPassword(""); got != "" {
		t.Errorf("expected empty mask, got %q", got)
	}
}

func TestEditRune(t *testing.T) {
	if got := editRune("ab", "c"); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := editRune("abc", "backspace"); got != "ab" {
		t.Errorf("expected ab, got %q", got)
	}
	if got := editRune("", "backspace"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if got := editRune("ab", "enter"); got != "ab" {
		t.Errorf("expected non-printable key ignored, got %q", got)
	}
	long := strings.Repeat("x", maxInputLen)
	if got := editRune(long, "y"); got != long {
		t.Error("expected input clamped at maxInputLen")
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("expected two lines, got %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("expected unchanged for non-positive height, got %q", got)
	}
}
