// Package chattypes defines theme-related data structures for HRChat's
// rendering system.
package chattypes

// ThemeConfig represents a theme configuration loaded from YAML.
type ThemeConfig struct {
	// Name is the theme identifier ("dark", "light", "plain")
	Name string `yaml:"name" json:"name"`

	// Description provides a brief description of the theme
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Styles contains the style definitions for the chat surface
	Styles ThemeStyles `yaml:"styles" json:"styles"`
}

// ThemeStyles defines the styling configuration for the chat surface.
// Each style can specify foreground color, background color, and text
// decorations.
type ThemeStyles struct {
	// UserBubble style for messages sent by the user
	UserBubble StyleConfig `yaml:"user_bubble" json:"user_bubble"`

	// BotBubble style for messages from the assistant
	BotBubble StyleConfig `yaml:"bot_bubble" json:"bot_bubble"`

	// Prompt style for the input prompt
	Prompt StyleConfig `yaml:"prompt" json:"prompt"`

	// Title style for the conversation list and banner headings
	Title StyleConfig `yaml:"title" json:"title"`

	// Success style for positive feedback
	Success StyleConfig `yaml:"success" json:"success"`

	// Error style for error messages
	Error StyleConfig `yaml:"error" json:"error"`

	// Info style for informational messages
	Info StyleConfig `yaml:"info" json:"info"`

	// Muted style for secondary text such as identifiers and hints
	Muted StyleConfig `yaml:"muted" json:"muted"`
}

// StyleConfig defines the visual styling for a semantic element.
type StyleConfig struct {
	// Foreground color - hex or ANSI color string
	Foreground string `yaml:"foreground,omitempty" json:"foreground,omitempty"`

	// Background color - hex or ANSI color string
	Background string `yaml:"background,omitempty" json:"background,omitempty"`

	// Bold text decoration
	Bold *bool `yaml:"bold,omitempty" json:"bold,omitempty"`

	// Italic text decoration
	Italic *bool `yaml:"italic,omitempty" json:"italic,omitempty"`

	// Underline text decoration
	Underline *bool `yaml:"underline,omitempty" json:"underline,omitempty"`
}

// ThemeFile represents a complete theme file loaded from YAML.
type ThemeFile struct {
	ThemeConfig `yaml:",inline" json:",inline"`
}
