package tui

import "github.com/Veraticus/the-subs-must-go/internal/tui/themes"

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Width       int
	Height      int
	SortByScore bool
	ShowHelp    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Width:       80,
		Height:      24,
		SortByScore: true,
		ShowHelp:    true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithHelp shows or hides the key help footer. Pressing ? still brings it
// back.
func WithHelp(enabled bool) Option {
	return func(c *Config) {
		c.ShowHelp = enabled
	}
}

// WithSortByScore orders the list by score instead of registration order.
func WithSortByScore(enabled bool) Option {
	return func(c *Config) {
		c.SortByScore = enabled
	}
}
