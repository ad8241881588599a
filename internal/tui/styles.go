package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// renderLogo renders "TASTEPASS" as a flowing wave of warm light.
// Deep ember (#4a2410) -> bright tangerine (#f0944a).
func renderLogo(frame int) string {
	const text = "TASTEPASS"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text.
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep ember -> bright tangerine.
		r := clampByte(74 + b*(240-74))
		g := clampByte(36 + b*(148-36))
		bl := clampByte(16 + b*(74-16))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — charcoal palette with a tangerine accent
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	pinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	barcodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Alert overlay
	alertBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f0944a")).
			Padding(1, 3)

	alertTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a")).
			Bold(true)

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Category colors — one hue per filter chip
	categoryColors = map[string]lipgloss.Color{
		"Diner":    lipgloss.Color("#d4a844"),
		"Sandwich": lipgloss.Color("#c8a84c"),
		"Pizza":    lipgloss.Color("#e06060"),
		"Asian":    lipgloss.Color("#60a0e0"),
		"Vegie":    lipgloss.Color("#4ade80"),
		"Café":     lipgloss.Color("#b080d0"),
		"Spicy":    lipgloss.Color("#f0944a"),
		"Drink":    lipgloss.Color("#3ecce4"),
	}
)

// CategoryStyle returns the style for a restaurant category chip.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

// helpEntry renders one "key label" pair for the help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
