package tui

import (
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/recommend"
	"github.com/PUSHPAK-96/cartwise/internal/tui/themes"
)

// Config holds explore TUI configuration.
type Config struct {
	Theme     themes.Theme
	Rules     []model.Rule
	Products  []model.ProductCount
	TopN      int
	Width     int
	Height    int
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		TopN:      recommend.DefaultTopN,
		Width:     100,
		Height:    30,
		AltScreen: true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithTopN sets how many recommendations are shown.
func WithTopN(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithoutAltScreen renders inline instead of in the alternate screen.
func WithoutAltScreen() Option {
	return func(c *Config) {
		c.AltScreen = false
	}
}

// NewConfig builds a configuration for the given rules and product list.
func NewConfig(rules []model.Rule, products []model.ProductCount, opts ...Option) Config {
	cfg := defaultConfig()
	cfg.Rules = rules
	cfg.Products = products
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
