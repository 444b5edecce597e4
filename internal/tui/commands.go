package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/recommend"
)

func basketKey(basket []string) string {
	return strings.Join(basket, "\x00")
}

// recommendCmd scores the basket off the update loop.
func recommendCmd(rules []model.Rule, basket []string, topN int) tea.Cmd {
	items := append([]string(nil), basket...)
	return func() tea.Msg {
		recs, err := recommend.Recommend(rules, model.NewItemSet(items...), topN)
		return recommendationsMsg{basket: basketKey(items), recs: recs, err: err}
	}
}
