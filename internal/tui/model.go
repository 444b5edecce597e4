// Package tui implements the interactive basket explorer: pick products,
// watch recommendations update.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/tui/themes"
)

// Focus is the pane receiving navigation keys.
type Focus int

const (
	FocusProducts Focus = iota
	FocusRecommendations
)

// Model holds the explorer state.
type Model struct {
	theme     themes.Theme
	lastError error
	selected  map[string]bool
	keymap    KeyMap
	search    textinput.Model
	help      help.Model
	recTable  table.Model
	rules     []model.Rule
	products  []model.ProductCount
	visible   []int
	basket    []string
	recs      []model.Recommendation
	topN      int
	cursor    int
	width     int
	height    int
	focus     Focus
	searching bool
	quitting  bool
}

// NewModel creates the explorer model.
func NewModel(cfg Config) Model {
	search := textinput.New()
	search.Placeholder = "filter products"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := Model{
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		search:   search,
		help:     help.New(),
		rules:    cfg.Rules,
		products: cfg.Products,
		selected: make(map[string]bool),
		topN:     cfg.TopN,
		width:    cfg.Width,
		height:   cfg.Height,
		recTable: newRecommendationTable(),
	}
	m.refilter()
	m.handleResize()
	return m
}

func newRecommendationTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Product", Width: 24},
			{Title: "Score", Width: 8},
			{Title: "Conf", Width: 6},
			{Title: "Lift", Width: 6},
		}),
		table.WithFocused(false),
	)
	return t
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case recommendationsMsg:
		if msg.basket != basketKey(m.basket) {
			return m, nil
		}
		m.lastError = msg.err
		m.setRecommendations(msg.recs)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refilter()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		m.focus = FocusProducts
		m.recTable.Blur()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keymap.SwitchFocus):
		if m.focus == FocusProducts {
			m.focus = FocusRecommendations
			m.recTable.Focus()
		} else {
			m.focus = FocusProducts
			m.recTable.Blur()
		}
		return m, nil
	case key.Matches(msg, m.keymap.Clear):
		m.basket = nil
		m.selected = make(map[string]bool)
		m.lastError = nil
		m.setRecommendations(nil)
		return m, nil
	}

	if m.focus == FocusRecommendations {
		var cmd tea.Cmd
		m.recTable, cmd = m.recTable.Update(msg)
		return m, cmd
	}

	page := max(m.listHeight(), 1)
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.moveCursor(-page)
	case key.Matches(msg, m.keymap.PageDown):
		m.moveCursor(page)
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = max(len(m.visible)-1, 0)
	case key.Matches(msg, m.keymap.Toggle):
		cmd := m.toggleCurrent()
		return m, cmd
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
}

// toggleCurrent adds or removes the product under the cursor and requests
// fresh recommendations.
func (m *Model) toggleCurrent() tea.Cmd {
	product, ok := m.CurrentProduct()
	if !ok {
		return nil
	}

	if m.selected[product] {
		delete(m.selected, product)
		kept := m.basket[:0:0]
		for _, p := range m.basket {
			if p != product {
				kept = append(kept, p)
			}
		}
		m.basket = kept
	} else {
		m.selected[product] = true
		m.basket = append(m.basket, product)
	}

	if len(m.basket) == 0 {
		m.lastError = nil
		m.setRecommendations(nil)
		return nil
	}
	return recommendCmd(m.rules, m.basket, m.topN)
}

func (m *Model) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	m.visible = make([]int, 0, len(m.products))
	for i, p := range m.products {
		if query == "" || strings.Contains(strings.ToLower(p.Product), query) {
			m.visible = append(m.visible, i)
		}
	}
	m.moveCursor(0)
}

func (m *Model) setRecommendations(recs []model.Recommendation) {
	m.recs = recs
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		rows[i] = table.Row{
			itoa(i + 1),
			r.Product,
			fixed(r.Score, 3),
			fixed(r.Confidence, 2),
			fixed(r.Lift, 2),
		}
	}
	m.recTable.SetRows(rows)
	m.recTable.GotoTop()
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	m.help.Width = m.width
	m.recTable.SetHeight(max(m.listHeight()-2, 3))
	m.search.Width = max(m.width/2-8, 10)
}

// listHeight is the number of product rows that fit.
func (m Model) listHeight() int {
	return max(m.height-8, 1)
}

// CurrentProduct returns the product under the cursor.
func (m Model) CurrentProduct() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return "", false
	}
	return m.products[m.visible[m.cursor]].Product, true
}

// Basket returns the selected products in selection order.
func (m Model) Basket() []string {
	return append([]string(nil), m.basket...)
}

// Recommendations returns the recommendations for the current basket.
func (m Model) Recommendations() []model.Recommendation {
	return m.recs
}

// Focus returns the focused pane.
func (m Model) Focus() Focus {
	return m.focus
}
