// Package shell provides the interactive chat shell for HRChat. It owns the
// readline loop, routes slash commands, and submits everything else as a chat
// turn.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"

	"hrchat/internal/api"
	"hrchat/internal/chat"
	"hrchat/internal/config"
	"hrchat/internal/logger"
	"hrchat/internal/render"
	"hrchat/internal/session"
	"hrchat/internal/theme"
	"hrchat/pkg/chattypes"
)

// Shell wires the session, the chat controller, and the terminal together.
type Shell struct {
	cfg      *config.Config
	sess     *session.Session
	auth     *api.AuthClient
	store    *api.StoreClient
	answers  *api.AnswerClient
	ctrl     *chat.Controller
	cache    *chat.ListCache
	themes   *theme.Manager
	renderer *render.Renderer
	log      *log.Logger
	debug    *api.DebugTransport
	out      io.Writer

	openOnStart string
	lastAnswer  string
}

// New assembles a Shell from the given configuration. Test mode makes turn
// identifiers deterministic.
func New(cfg *config.Config, testMode bool) (*Shell, error) {
	sess := session.New()
	store := api.NewStoreClient(cfg.StoreURL(), sess)
	auth := api.NewAuthClient(cfg.StoreURL())
	answers, err := api.NewAnswerClient(cfg.AnswerURL())
	if err != nil {
		return nil, fmt.Errorf("failed to configure answer service: %w", err)
	}

	themes := theme.NewManager(cfg)
	themes.Init(cfg.Theme())
	renderer, err := render.NewRenderer(themes)
	if err != nil {
		return nil, err
	}

	ctrl := chat.NewController(store, answers)
	ctrl.SetTestMode(testMode)
	cache := chat.NewListCache(store)
	cache.BindActive(ctrl)
	ctrl.OnConversationCreated(cache.UpsertFromCreate)

	s := &Shell{
		cfg:      cfg,
		sess:     sess,
		auth:     auth,
		store:    store,
		answers:  answers,
		ctrl:     ctrl,
		cache:    cache,
		themes:   themes,
		renderer: renderer,
		log:      logger.NewStyledLogger("Shell"),
	}

	if logger.DebugEnabled() {
		s.debug = api.NewDebugTransport(nil)
		store.SetDebugTransport(s.debug)
		auth.SetDebugTransport(s.debug)
		answers.SetDebugTransport(s.debug)
	}

	return s, nil
}

// OpenOnStart makes Run open the given conversation right after sign-in,
// as if the user had issued /open with it.
func (s *Shell) OpenOnStart(target string) {
	s.openOnStart = strings.TrimSpace(target)
}

// Run starts the interactive loop and blocks until the user exits.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.renderer.Prompt(),
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize line editor: %w", err)
	}
	defer func() { _ = rl.Close() }()
	s.out = rl.Stdout()

	if err := s.ensureSignedIn(ctx, rl); err != nil {
		return err
	}

	if err := s.cache.Refresh(ctx); err != nil {
		s.log.Warn("Failed to load conversation list", "error", err)
	}
	s.print(s.renderer.Welcome())
	if s.openOnStart != "" {
		s.cmdOpen(ctx, s.openOnStart)
	}

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			// ^C on an empty line exits, otherwise just clears the input
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := s.dispatch(ctx, rl, line); quit {
				return nil
			}
			continue
		}

		s.submitTurn(ctx, line)
	}
}

// submitTurn runs one question/answer exchange and prints the outcome.
// Failed turns already carry the apologetic bot reply, so aside from the
// session-expiry hint there is nothing extra to report.
func (s *Shell) submitTurn(ctx context.Context, text string) {
	before := len(s.ctrl.Snapshot().Messages)
	reply, err := s.ctrl.SubmitTurn(ctx, text)
	if err != nil {
		if errors.Is(err, chat.ErrTurnPending) {
			s.print(s.renderer.Error("A question is still being answered."))
		}
		return
	}

	snap := s.ctrl.Snapshot()
	if snap.Err != nil && errors.Is(snap.Err, api.ErrUnauthorized) {
		s.sess.Clear()
		s.print(s.renderer.Error("Your session has expired. Use /logout to sign in again."))
	}
	if snap.Phase == chattypes.TurnSettledOK {
		s.lastAnswer = reply.Content
	}

	// Everything the turn appended after the echoed user message: the
	// answer, and the error notice when the turn failed after it.
	for i := before + 1; i < len(snap.Messages); i++ {
		s.print(s.renderer.Message(snap.Messages[i]))
	}

	if s.debug != nil {
		s.log.Debug("Last HTTP exchange", "capture", s.debug.CapturedData())
	}
}

// ensureSignedIn establishes an authenticated session, using configured
// credentials when present and prompting otherwise.
func (s *Shell) ensureSignedIn(ctx context.Context, rl *readline.Instance) error {
	if s.sess.Authenticated() {
		return nil
	}

	email, password := s.cfg.Email(), s.cfg.Password()
	if email != "" && password != "" {
		err := s.signIn(ctx, email, password)
		if err == nil {
			return nil
		}
		s.print(s.renderer.Error("Sign-in with configured credentials failed: " + err.Error()))
	}
	return s.promptSignIn(ctx, rl)
}

// promptSignIn asks for credentials until login succeeds or input ends.
func (s *Shell) promptSignIn(ctx context.Context, rl *readline.Instance) error {
	s.print(s.renderer.Info("Sign in to continue. New here? Run `hrchat register` first."))
	for {
		email, err := readLine(rl, "Email: ")
		if err != nil {
			return err
		}
		password, err := readPassword(rl, "Password: ")
		if err != nil {
			return err
		}
		if err := s.signIn(ctx, email, password); err != nil {
			s.print(s.renderer.Error(err.Error()))
			continue
		}
		return nil
	}
}

func (s *Shell) signIn(ctx context.Context, email, password string) error {
	if err := api.ValidateEmailDomain(email, s.cfg.AllowedDomains()); err != nil {
		return err
	}
	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	s.sess.Establish(token)
	s.log.Info("Signed in", "email", email)
	return nil
}

func (s *Shell) print(text string) {
	if s.out == nil {
		return
	}
	fmt.Fprint(s.out, text)
}

func readLine(rl *readline.Instance, prompt string) (string, error) {
	saved := rl.Config.Prompt
	rl.SetPrompt(prompt)
	defer rl.SetPrompt(saved)
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(rl *readline.Instance, prompt string) (string, error) {
	pw, err := rl.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pw)), nil
}
