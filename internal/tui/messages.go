package tui

import "github.com/PUSHPAK-96/cartwise/internal/model"

// recommendationsMsg carries scores for the basket they were computed for.
type recommendationsMsg struct {
	err    error
	basket string
	recs   []model.Recommendation
}
