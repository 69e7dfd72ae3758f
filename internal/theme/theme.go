// Package theme provides theme management for HRChat styling.
// Themes are loaded from embedded YAML style sheets; the active preference is
// persisted durably the moment it changes and falls back to the terminal's
// OS-level light/dark preference when none is stored.
package theme

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"hrchat/internal/data/embedded"
	"hrchat/internal/logger"
	"hrchat/pkg/chattypes"
)

// Theme holds the lipgloss styles for the chat surface.
type Theme struct {
	Name       string
	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	Prompt     lipgloss.Style
	Title      lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Info       lipgloss.Style
	Muted      lipgloss.Style
}

// Persister stores the theme preference durably. *config.Config satisfies it.
type Persister interface {
	PersistTheme(name string) error
}

// Manager maintains the loaded themes and the active selection.
type Manager struct {
	themes    map[string]*Theme
	current   string
	persister Persister
}

// NewManager creates a Manager with themes loaded from the embedded YAML
// files. The persister may be nil, in which case preference changes are not
// written anywhere.
func NewManager(persister Persister) *Manager {
	m := &Manager{
		themes:    make(map[string]*Theme),
		persister: persister,
		current:   "plain",
	}
	m.loadThemesFromYAML()
	return m
}

// loadThemesFromYAML loads themes from the embedded YAML files.
func (m *Manager) loadThemesFromYAML() {
	themeFiles := map[string][]byte{
		"dark":  embedded.DarkThemeData,
		"light": embedded.LightThemeData,
		"plain": embedded.PlainThemeData,
	}

	for name, data := range themeFiles {
		theme, err := loadThemeFile(data)
		if err != nil {
			logger.Error("Failed to load theme", "theme", name, "error", err)
			m.themes[name] = &Theme{Name: name}
			continue
		}
		m.themes[name] = theme
	}

	if _, exists := m.themes["plain"]; !exists {
		m.themes["plain"] = &Theme{Name: "plain"}
	}
}

// Init selects the starting theme: the stored preference when it names a
// known theme, otherwise the OS-level terminal background preference.
func (m *Manager) Init(preferred string) {
	if _, ok := m.themes[preferred]; ok {
		m.current = preferred
		return
	}
	if termenv.HasDarkBackground() {
		m.current = "dark"
	} else {
		m.current = "light"
	}
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	return m.themes[m.current]
}

// CurrentName returns the active theme's name.
func (m *Manager) CurrentName() string {
	return m.current
}

// Names returns the available theme names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set activates the named theme and persists the preference immediately.
func (m *Manager) Set(name string) error {
	if _, ok := m.themes[name]; !ok {
		return fmt.Errorf("unknown theme %q (available: dark, light, plain)", name)
	}
	m.current = name
	return m.persist()
}

// Toggle switches between dark and light and persists the preference.
// From plain it switches to dark.
func (m *Manager) Toggle() (string, error) {
	next := "dark"
	if m.current == "dark" {
		next = "light"
	}
	m.current = next
	return next, m.persist()
}

// GlamourStyle returns the glamour style name matching the active theme.
func (m *Manager) GlamourStyle() string {
	switch m.current {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		return "notty"
	}
}

func (m *Manager) persist() error {
	if m.persister == nil {
		return nil
	}
	if err := m.persister.PersistTheme(m.current); err != nil {
		return fmt.Errorf("failed to save theme preference: %w", err)
	}
	return nil
}

// loadThemeFile parses one embedded YAML style sheet.
func loadThemeFile(data []byte) (*Theme, error) {
	var themeFile chattypes.ThemeFile
	if err := yaml.Unmarshal(data, &themeFile); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	return convertThemeConfig(&themeFile.ThemeConfig), nil
}

// convertThemeConfig turns a parsed config into lipgloss styles.
func convertThemeConfig(config *chattypes.ThemeConfig) *Theme {
	return &Theme{
		Name:       config.Name,
		UserBubble: createStyle(config.Styles.UserBubble),
		BotBubble:  createStyle(config.Styles.BotBubble),
		Prompt:     createStyle(config.Styles.Prompt),
		Title:      createStyle(config.Styles.Title),
		Success:    createStyle(config.Styles.Success),
		Error:      createStyle(config.Styles.Error),
		Info:       createStyle(config.Styles.Info),
		Muted:      createStyle(config.Styles.Muted),
	}
}

func createStyle(config chattypes.StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()
	if config.Foreground != "" {
		style = style.Foreground(lipgloss.Color(config.Foreground))
	}
	if config.Background != "" {
		style = style.Background(lipgloss.Color(config.Background))
	}
	if config.Bold != nil {
		style = style.Bold(*config.Bold)
	}
	if config.Italic != nil {
		style = style.Italic(*config.Italic)
	}
	if config.Underline != nil {
		style = style.Underline(*config.Underline)
	}
	return style
}
