// Package render turns conversation content into styled terminal output.
// Bot answers are rendered as markdown through Glamour; the surrounding
// chrome (speaker labels, banners, status lines) uses the lipgloss styles of
// the active theme.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"hrchat/internal/theme"
	"hrchat/pkg/chattypes"
)

const defaultWordWrap = 80

// Renderer produces terminal output for chat transcripts.
type Renderer struct {
	themes   *theme.Manager
	markdown *glamour.TermRenderer
	wrap     int
}

// NewRenderer creates a Renderer bound to the given theme manager.
func NewRenderer(themes *theme.Manager) (*Renderer, error) {
	r := &Renderer{themes: themes, wrap: defaultWordWrap}
	if err := r.rebuildMarkdown(); err != nil {
		return nil, err
	}
	return r, nil
}

// rebuildMarkdown recreates the glamour renderer for the active theme.
func (r *Renderer) rebuildMarkdown(options ...glamour.TermRendererOption) error {
	opts := append([]glamour.TermRendererOption{
		glamour.WithStandardStyle(r.themes.GlamourStyle()),
		glamour.WithWordWrap(r.wrap),
	}, options...)
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	r.markdown = renderer
	return nil
}

// ThemeChanged must be called after the active theme switches so markdown
// picks up the matching glamour style.
func (r *Renderer) ThemeChanged() error {
	return r.rebuildMarkdown()
}

// Message renders a single chat message. User messages are shown verbatim
// under a styled speaker label; bot messages go through the markdown
// renderer.
func (r *Renderer) Message(msg chattypes.Message) string {
	t := r.themes.Current()
	var sb strings.Builder

	switch msg.Sender {
	case chattypes.SenderUser:
		sb.WriteString(t.UserBubble.Render("You"))
		sb.WriteString("\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	default:
		sb.WriteString(t.BotBubble.Render("HR Assistant"))
		sb.WriteString("\n")
		sb.WriteString(r.Markdown(msg.Content))
	}
	return sb.String()
}

// Markdown renders bot answer text as markdown. On renderer failure the raw
// text is returned so an answer is never lost to a styling problem.
func (r *Renderer) Markdown(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

// Transcript renders a whole conversation, oldest message first.
func (r *Renderer) Transcript(messages []chattypes.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(r.Message(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Welcome renders the banner shown when the shell starts or a new
// conversation begins.
func (r *Renderer) Welcome() string {
	t := r.themes.Current()
	var sb strings.Builder
	sb.WriteString(t.Title.Render("HR Assistant"))
	sb.WriteString("\n")
	sb.WriteString(t.Muted.Render("Ask anything about HR policies. Type /help for commands."))
	sb.WriteString("\n")
	return sb.String()
}

// ConversationList renders the cached conversation summaries as a numbered
// list, most recent first as delivered by the store.
func (r *Renderer) ConversationList(summaries []chattypes.ChatSummary, activeID string) string {
	t := r.themes.Current()
	if len(summaries) == 0 {
		return t.Muted.Render("No conversations yet. Just start typing to create one.") + "\n"
	}
	var sb strings.Builder
	for i, s := range summaries {
		line := fmt.Sprintf("%2d. %s", i+1, s.DisplayTitle())
		if s.ID == activeID {
			sb.WriteString(t.Prompt.Render(line + "  (active)"))
		} else {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Success renders a confirmation line.
func (r *Renderer) Success(text string) string {
	return r.themes.Current().Success.Render(text) + "\n"
}

// Error renders an error line.
func (r *Renderer) Error(text string) string {
	return r.themes.Current().Error.Render(text) + "\n"
}

// Info renders an informational line.
func (r *Renderer) Info(text string) string {
	return r.themes.Current().Info.Render(text) + "\n"
}

// Prompt returns the styled input prompt for the line editor.
func (r *Renderer) Prompt() string {
	return r.themes.Current().Prompt.Render("hr>") + " "
}
