package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"hrchat/internal/chat"
	"hrchat/pkg/chattypes"
)

const helpText = `Commands:
  /new                start a new conversation
  /list               list your conversations
  /open <n|id>        open a conversation from the list
  /rename <n|id> <t>  rename a conversation
  /delete <n|id>      delete a conversation
  /theme [name]       toggle dark/light, or switch to dark, light or plain
  /copy               copy the last answer to the clipboard
  /logout             sign out and sign in as someone else
  /help               show this help
  /exit               leave HRChat

Anything else you type is sent to the HR assistant.
`

// parseCommand splits a slash command line into its name and argument rest.
func parseCommand(line string) (name, rest string) {
	line = strings.TrimPrefix(line, "/")
	parts := strings.SplitN(line, " ", 2)
	name = strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return name, rest
}

// dispatch executes a slash command. It returns true when the shell should
// exit.
func (s *Shell) dispatch(ctx context.Context, rl *readline.Instance, line string) bool {
	name, rest := parseCommand(line)
	switch name {
	case "exit", "quit":
		return true
	case "help":
		s.print(helpText)
	case "new":
		s.cmdNew()
	case "list":
		s.cmdList(ctx)
	case "open":
		s.cmdOpen(ctx, rest)
	case "rename":
		s.cmdRename(ctx, rest)
	case "delete":
		s.cmdDelete(ctx, rest)
	case "theme":
		s.cmdTheme(rest)
	case "copy":
		s.cmdCopy()
	case "logout":
		s.cmdLogout(ctx, rl)
	default:
		s.print(s.renderer.Error(fmt.Sprintf("Unknown command /%s. Type /help for the list.", name)))
	}
	return false
}

func (s *Shell) cmdNew() {
	if err := s.ctrl.StartNew(); err != nil {
		s.print(s.renderer.Error(err.Error()))
		return
	}
	s.lastAnswer = ""
	s.print(s.renderer.Welcome())
}

func (s *Shell) cmdList(ctx context.Context) {
	if err := s.cache.Refresh(ctx); err != nil {
		s.print(s.renderer.Error("Could not load conversations: " + err.Error()))
		return
	}
	s.print(s.renderer.ConversationList(s.cache.Summaries(), s.ctrl.ID()))
}

func (s *Shell) cmdOpen(ctx context.Context, arg string) {
	summary, err := s.resolveTarget(arg)
	if err != nil {
		s.print(s.renderer.Error(err.Error()))
		return
	}
	if err := s.ctrl.Load(ctx, summary.ID); err != nil {
		if errors.Is(err, chat.ErrTurnPending) {
			s.print(s.renderer.Error("A question is still being answered."))
			return
		}
		s.print(s.renderer.Error("Could not open conversation: " + err.Error()))
		return
	}
	s.lastAnswer = ""
	s.print(s.renderer.Info("Opened " + summary.DisplayTitle()))
	s.print(s.renderer.Transcript(s.ctrl.Snapshot().Messages))
}

func (s *Shell) cmdRename(ctx context.Context, rest string) {
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		s.print(s.renderer.Error("Usage: /rename <n|id> <new title>"))
		return
	}
	summary, err := s.resolveTarget(parts[0])
	if err != nil {
		s.print(s.renderer.Error(err.Error()))
		return
	}
	title := strings.TrimSpace(parts[1])
	if err := s.cache.Rename(ctx, summary.ID, title); err != nil {
		s.print(s.renderer.Error("Rename failed: " + err.Error()))
		return
	}
	s.print(s.renderer.Success("Renamed to " + title))
}

func (s *Shell) cmdDelete(ctx context.Context, arg string) {
	summary, err := s.resolveTarget(arg)
	if err != nil {
		s.print(s.renderer.Error(err.Error()))
		return
	}
	wasActive := summary.ID == s.ctrl.ID()
	if err := s.cache.Remove(ctx, summary.ID); err != nil {
		s.print(s.renderer.Error("Delete failed: " + err.Error()))
		return
	}
	s.print(s.renderer.Success("Deleted " + summary.DisplayTitle()))
	if wasActive {
		s.lastAnswer = ""
		s.print(s.renderer.Welcome())
	}
}

func (s *Shell) cmdTheme(arg string) {
	var (
		name string
		err  error
	)
	if arg == "" {
		name, err = s.themes.Toggle()
	} else {
		name = strings.ToLower(arg)
		err = s.themes.Set(name)
	}
	if err != nil {
		s.print(s.renderer.Error(err.Error()))
		return
	}
	if err := s.renderer.ThemeChanged(); err != nil {
		s.log.Warn("Failed to rebuild renderer after theme change", "error", err)
	}
	s.print(s.renderer.Success("Theme: " + name))
}

func (s *Shell) cmdCopy() {
	if s.lastAnswer == "" {
		s.print(s.renderer.Error("Nothing to copy yet."))
		return
	}
	if !clipboardAvailable {
		s.print(s.renderer.Error("Clipboard is not available on this platform."))
		return
	}
	if err := initClipboard(); err != nil {
		s.print(s.renderer.Error("Clipboard unavailable: " + err.Error()))
		return
	}
	if err := writeToClipboard(s.lastAnswer); err != nil {
		s.print(s.renderer.Error("Copy failed: " + err.Error()))
		return
	}
	s.print(s.renderer.Success("Copied last answer to clipboard."))
}

func (s *Shell) cmdLogout(ctx context.Context, rl *readline.Instance) {
	s.sess.Clear()
	if err := s.ctrl.StartNew(); err != nil {
		s.log.Debug("Could not reset conversation on logout", "error", err)
	}
	s.lastAnswer = ""
	s.print(s.renderer.Info("Signed out."))
	if err := s.promptSignIn(ctx, rl); err != nil {
		return
	}
	if err := s.cache.Refresh(ctx); err != nil {
		s.log.Warn("Failed to load conversation list", "error", err)
	}
	s.print(s.renderer.Welcome())
}

// resolveTarget maps a 1-based list index or a raw conversation id to a
// cached summary.
func (s *Shell) resolveTarget(arg string) (chattypes.ChatSummary, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return chattypes.ChatSummary{}, fmt.Errorf("missing conversation, use /list to see them")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		summary, ok := s.cache.At(n - 1)
		if !ok {
			return chattypes.ChatSummary{}, fmt.Errorf("no conversation number %d, use /list to see them", n)
		}
		return summary, nil
	}
	if summary, ok := s.cache.Lookup(arg); ok {
		return summary, nil
	}
	return chattypes.ChatSummary{}, fmt.Errorf("unknown conversation %q, use /list to see them", arg)
}
