package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tastepass/tastepass/internal/browser"
	"github.com/tastepass/tastepass/pkg/client"
	"github.com/tastepass/tastepass/pkg/domain"
	"github.com/tastepass/tastepass/pkg/session"
)

// restaurantsModel shows the user's current restaurant rotation, with
// pinned favorites surfaced first, and a menu detail view per restaurant.
type restaurantsModel struct {
	mgr *session.Manager
	api *client.Client

	sess        domain.Session
	restaurants []domain.Restaurant
	cursor      int
	category    string
	loading     bool
	errMsg      string
	statusMsg   string

	// detail view
	detail       *domain.Restaurant
	menu         []domain.MenuSection
	menuErr      string
	menuLoading  bool
	openSections map[int]bool
	secCursor    int

	width  int
	height int
}

type restaurantsLoadedMsg struct {
	restaurants []domain.Restaurant
	err         error
}

type menuLoadedMsg struct {
	restaurantID string
	sections     []domain.MenuSection
	err          error
}

func newRestaurantsModel(mgr *session.Manager, api *client.Client) restaurantsModel {
	return restaurantsModel{mgr: mgr, api: api, loading: true}
}

func (m restaurantsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m restaurantsModel) loadCmd() tea.Cmd {
	if m.sess.User == nil {
		return nil
	}
	api, userID := m.api, m.sess.User.ID
	return func() tea.Msg {
		restaurants, err := api.RotatedRestaurants(context.Background(), userID)
		return restaurantsLoadedMsg{restaurants: restaurants, err: err}
	}
}

func (m restaurantsModel) menuCmd(r domain.Restaurant) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		sections, err := api.Menu(context.Background(), r.ID)
		return menuLoadedMsg{restaurantID: r.ID, sections: sections, err: err}
	}
}

// visible returns the rotation filtered by the active category chip,
// pinned favorites first.
func (m restaurantsModel) visible() []domain.Restaurant {
	return domain.OrderPinned(m.restaurants, m.sess.PinnedRestaurants, m.category)
}

func (m restaurantsModel) helpKeys() string {
	if m.detail != nil {
		return helpEntry("j/k", "sections") + "  " + helpEntry("enter", "expand") + "  " +
			helpEntry("p", "pin") + "  " + helpEntry("c", "copy code") + "  " +
			helpEntry("m", "map") + "  " + helpEntry("esc", "back")
	}
	return helpEntry("j/k", "move") + "  " + helpEntry("enter", "menu") + "  " +
		helpEntry("p", "pin") + "  " + helpEntry("t", "category") + "  " +
		helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}

func (m restaurantsModel) Update(msg tea.Msg) (restaurantsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case restaurantsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = "Could not load restaurants"
			return m, nil
		}
		m.errMsg = ""
		m.restaurants = msg.restaurants
		if n := len(m.visible()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case menuLoadedMsg:
		if m.detail == nil || m.detail.ID != msg.restaurantID {
			return m, nil
		}
		m.menuLoading = false
		if msg.err != nil {
			var httpErr *client.HTTPError
			if client.IsStatus(msg.err, 404) && errors.As(msg.err, &httpErr) && httpErr.Message != "" {
				m.menuErr = httpErr.Message
			} else {
				m.menuErr = "Could not load the menu"
			}
			return m, nil
		}
		m.menu = msg.sections
		m.openSections = map[int]bool{}
		if len(m.menu) > 0 {
			m.openSections[0] = true
		}
		m.secCursor = 0
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			return m.updateDetailKeys(msg)
		}
		return m.updateListKeys(msg)
	}
	return m, nil
}

func (m restaurantsModel) updateListKeys(msg tea.KeyMsg) (restaurantsModel, tea.Cmd) {
	m.statusMsg = ""
	visible := m.visible()

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "t":
		m.category = nextCategory(m.category)
		m.cursor = 0
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "p":
		if m.cursor < len(visible) {
			return m.togglePin(visible[m.cursor].ID)
		}
	case "enter":
		if m.cursor < len(visible) {
			r := visible[m.cursor]
			m.detail = &r
			m.menu = nil
			m.menuErr = ""
			m.menuLoading = true
			m.secCursor = 0
			return m, m.menuCmd(r)
		}
	}
	return m, nil
}

func (m restaurantsModel) updateDetailKeys(msg tea.KeyMsg) (restaurantsModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "esc", "backspace":
		m.detail = nil
		m.menu = nil
		m.menuErr = ""
	case "j", "down":
		if m.secCursor < len(m.menu)-1 {
			m.secCursor++
		}
	case "k", "up":
		if m.secCursor > 0 {
			m.secCursor--
		}
	case "enter", " ":
		if m.secCursor < len(m.menu) {
			m.openSections[m.secCursor] = !m.openSections[m.secCursor]
		}
	case "p":
		return m.togglePin(m.detail.ID)
	case "c":
		if m.detail.Barcode != "" {
			if err := clipboard.WriteAll(m.detail.Barcode); err != nil {
				m.errMsg = "Could not copy to clipboard"
			} else {
				m.statusMsg = "Discount code copied to clipboard"
			}
		}
	case "m":
		if m.detail.Location != "" {
			if err := browser.OpenMaps(m.detail.Location); err != nil {
				m.errMsg = "Could not open maps"
			}
		}
	}
	return m, nil
}

func (m restaurantsModel) togglePin(id string) (restaurantsModel, tea.Cmd) {
	err := m.mgr.TogglePin(id)
	if errors.Is(err, session.ErrPinLimit) {
		return m, func() tea.Msg {
			return alertMsg{
				title: "Pin Limit Reached",
				body:  fmt.Sprintf("You can only pin up to %d restaurants.", domain.MaxPinned),
			}
		}
	}
	// The session subscriber delivers the new pinned set; no local
	// bookkeeping needed here.
	return m, nil
}

func nextCategory(current string) string {
	if current == "" {
		return domain.Categories[0]
	}
	for i, c := range domain.Categories {
		if c == current {
			if i == len(domain.Categories)-1 {
				return ""
			}
			return domain.Categories[i+1]
		}
	}
	return ""
}

func (m restaurantsModel) View() string {
	if m.detail != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m restaurantsModel) viewList() string {
	var b strings.Builder

	// Category chip row.
	chip := "All"
	style := selectedStyle
	if m.category != "" {
		chip = m.category
		style = CategoryStyle(m.category).Bold(true)
	}
	b.WriteString("\n " + metaStyle.Render("category:") + " " + style.Render(chip) + "\n\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading restaurants...") + "\n")
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.errMsg) + "\n")
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		if m.category != "" {
			b.WriteString(" " + dimStyle.Render("No restaurants in this category.") + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("No restaurants in your rotation yet.") + "\n")
		}
		return b.String()
	}

	nameWidth := m.width - 30
	if nameWidth < 16 {
		nameWidth = 16
	}
	for i, r := range visible {
		pin := "  "
		if m.sess.Pinned(r.ID) {
			pin = pinStyle.Render("★ ")
		}
		name := truncStr(r.Name, nameWidth)
		category := CategoryStyle(r.Category).Render(r.Category)
		location := metaStyle.Render(truncStr(r.Location, 24))

		line := fmt.Sprintf(" %s%s  %s  %s", pin, name, category, location)
		if i == m.cursor {
			line = selectedRowBg.Render("> " + strings.TrimPrefix(line, " "))
		} else {
			line = "  " + strings.TrimPrefix(line, " ")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m restaurantsModel) viewDetail() string {
	r := m.detail
	var b strings.Builder

	pin := ""
	if m.sess.Pinned(r.ID) {
		pin = " " + pinStyle.Render("★ pinned")
	}
	b.WriteString("\n " + selectedStyle.Render(r.Name) + pin + "\n")
	b.WriteString(" " + CategoryStyle(r.Category).Render(r.Category) + "  " + metaStyle.Render(r.Location) + "\n\n")

	if r.Barcode != "" {
		for _, line := range strings.Split(renderBarcode(r.Barcode), "\n") {
			b.WriteString(" " + line + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.menuLoading:
		b.WriteString(" " + dimStyle.Render("loading menu...") + "\n")
	case m.menuErr != "":
		b.WriteString(" " + dimStyle.Render(m.menuErr) + "\n")
	default:
		avg, ok := domain.AveragePrice(m.menu)
		b.WriteString(" " + metaStyle.Render("average price:") + " " + priceStyle.Render(formatPrice(avg, ok)) + "\n\n")

		for i, sec := range m.menu {
			marker := "▸"
			if m.openSections[i] {
				marker = "▾"
			}
			header := marker + " " + sec.Name
			if i == m.secCursor {
				header = selectedStyle.Render(header)
			} else {
				header = normalStyle.Render(header)
			}
			b.WriteString(" " + header + "\n")

			if !m.openSections[i] {
				continue
			}
			for _, item := range sec.Items {
				price := ""
				if item.Price != "" {
					price = priceStyle.Render("$" + item.Price)
				}
				b.WriteString(fmt.Sprintf("     %s  %s\n", normalStyle.Render(truncStr(item.Name, 36)), price))
				if item.Description != "" {
					b.WriteString("       " + dimStyle.Render(truncStr(item.Description, 56)) + "\n")
				}
			}
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + statusStyle.Render(m.statusMsg) + "\n")
	} else if m.errMsg != "" {
		b.WriteString("\n " + errorStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}
