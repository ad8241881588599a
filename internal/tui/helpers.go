package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatPrice renders a dollar amount, or "N/A" when unknown.
func formatPrice(avg float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", avg)
}

// renderBarcode draws a discount code as Code 39-style terminal bars.
// The same code always yields the same bars, so a scannerless human can
// at least see that two restaurants carry different codes. The digits
// are printed underneath for manual entry.
func renderBarcode(code string) string {
	if code == "" {
		return ""
	}

	var bars strings.Builder
	bars.WriteString("▌") // start guard
	for _, r := range code {
		switch r % 4 {
		case 0:
			bars.WriteString("█│")
		case 1:
			bars.WriteString("▐█")
		case 2:
			bars.WriteString("│█│")
		default:
			bars.WriteString("█▐")
		}
	}
	bars.WriteString("▐") // end guard

	line := barcodeStyle.Render(bars.String())
	return line + "\n" + line + "\n" + metaStyle.Render(" "+code)
}

// maskPassword hides typed password characters in form fields.
func maskPassword(s string) string {
	return strings.Repeat("*", utf8.RuneCountInString(s))
}
