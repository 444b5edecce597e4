package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.theme.Title.Render("🛒 cartwise explore") + "  " +
		m.theme.Subtitle.Render(fmt.Sprintf("%d products, %d rules", len(m.products), len(m.rules)))

	paneWidth := max(m.width/2-2, 20)
	left := m.renderProducts(paneWidth)
	right := m.renderRecommendations(paneWidth)

	leftStyle, rightStyle := m.theme.FocusedPane, m.theme.Pane
	if m.focus == FocusRecommendations {
		leftStyle, rightStyle = m.theme.Pane, m.theme.FocusedPane
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Width(paneWidth).Render(left),
		rightStyle.Width(paneWidth).Render(right),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(m.keymap))
}

func (m Model) renderProducts(width int) string {
	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteByte('\n')
	} else {
		b.WriteString(m.theme.Subtitle.Render("Products"))
		b.WriteByte('\n')
	}

	if len(m.visible) == 0 {
		b.WriteString(m.theme.Muted.Render("no products match"))
		return b.String()
	}

	height := m.listHeight()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.visible))

	for i := start; i < end; i++ {
		p := m.products[m.visible[i]]
		check := "[ ]"
		if m.selected[p.Product] {
			check = m.theme.Checked.Render("[x]")
		}
		name := truncate(p.Product, width-12)
		line := fmt.Sprintf("%s %s %s", check, name, m.theme.Muted.Render("("+strconv.Itoa(p.Count)+")"))
		if i == m.cursor && m.focus == FocusProducts {
			line = m.theme.Selected.Render(fmt.Sprintf("%s %s (%d)", "›", name, p.Count))
			if m.selected[p.Product] {
				line = m.theme.Selected.Render(fmt.Sprintf("[x] %s (%d)", name, p.Count))
			}
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderRecommendations(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Subtitle.Render("Basket"))
	b.WriteByte('\n')
	if len(m.basket) == 0 {
		b.WriteString(m.theme.Muted.Render("select products to see add-on suggestions"))
		return b.String()
	}
	b.WriteString(truncate(strings.Join(m.basket, ", "), width-2))
	b.WriteString("\n\n")

	switch {
	case m.lastError != nil:
		b.WriteString(m.theme.Error.Render(m.lastError.Error()))
	case len(m.recs) == 0:
		b.WriteString(m.theme.Muted.Render("no rules fire for this basket"))
	default:
		b.WriteString(m.recTable.View())
	}
	return b.String()
}

func truncate(s string, n int) string {
	n = max(n, 4)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
