package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrchat/internal/chat"
	"hrchat/internal/config"
	"hrchat/internal/logger"
	"hrchat/internal/render"
	"hrchat/internal/theme"
	"hrchat/pkg/chattypes"
)

// stubStore serves a fixed conversation list and records mutations.
type stubStore struct {
	summaries     []chattypes.ChatSummary
	renamed       map[string]string
	deleted       []string
	failBotAppend bool
}

func (s *stubStore) ListChats(_ context.Context) ([]chattypes.ChatSummary, error) {
	return s.summaries, nil
}

func (s *stubStore) CreateChat(_ context.Context, _ string, _ chattypes.Sender) (chattypes.ChatSummary, error) {
	return chattypes.ChatSummary{ID: "created"}, nil
}

func (s *stubStore) AppendMessage(_ context.Context, _, _ string, sender chattypes.Sender) error {
	if s.failBotAppend && sender == chattypes.SenderBot {
		return errors.New("append failed")
	}
	return nil
}

func (s *stubStore) GetChat(_ context.Context, _ string) ([]chattypes.Message, error) {
	return nil, nil
}

func (s *stubStore) RenameChat(_ context.Context, chatID, title string) (chattypes.ChatSummary, error) {
	if s.renamed == nil {
		s.renamed = make(map[string]string)
	}
	s.renamed[chatID] = title
	return chattypes.ChatSummary{ID: chatID, Title: title}, nil
}

func (s *stubStore) DeleteChat(_ context.Context, chatID string) error {
	s.deleted = append(s.deleted, chatID)
	return nil
}

type stubAnswerer struct {
	err error
}

func (a stubAnswerer) Ask(_ context.Context, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return "an answer", nil
}

func newTestShell(t *testing.T, store *stubStore) (*Shell, *bytes.Buffer) {
	return newTestShellWith(t, store, stubAnswerer{})
}

func newTestShellWith(t *testing.T, store *stubStore, answers chat.Answerer) (*Shell, *bytes.Buffer) {
	t.Helper()
	themes := theme.NewManager(nil)
	require.NoError(t, themes.Set("plain"))
	renderer, err := render.NewRenderer(themes)
	require.NoError(t, err)

	ctrl := chat.NewController(store, answers)
	cache := chat.NewListCache(store)
	cache.BindActive(ctrl)
	ctrl.OnConversationCreated(cache.UpsertFromCreate)

	out := &bytes.Buffer{}
	s := &Shell{
		ctrl:     ctrl,
		cache:    cache,
		themes:   themes,
		renderer: renderer,
		log:      logger.NewStyledLogger("Shell"),
		out:      out,
	}
	return s, out
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantRest string
	}{
		{"bare command", "/list", "list", ""},
		{"command with arg", "/open 2", "open", "2"},
		{"rest keeps spaces", "/rename 1 Leave policy questions", "rename", "1 Leave policy questions"},
		{"case insensitive name", "/THEME dark", "theme", "dark"},
		{"extra whitespace", "/open   abc123  ", "open", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, rest := parseCommand(tt.line)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestResolveTargetByIndexAndID(t *testing.T) {
	store := &stubStore{summaries: []chattypes.ChatSummary{
		{ID: "id-one", Title: "First"},
		{ID: "id-two", Title: "Second"},
	}}
	s, _ := newTestShell(t, store)
	require.NoError(t, s.cache.Refresh(context.Background()))

	byIndex, err := s.resolveTarget("2")
	require.NoError(t, err)
	assert.Equal(t, "id-two", byIndex.ID)

	byID, err := s.resolveTarget("id-one")
	require.NoError(t, err)
	assert.Equal(t, "First", byID.Title)
}

func TestResolveTargetErrors(t *testing.T) {
	store := &stubStore{summaries: []chattypes.ChatSummary{{ID: "id-one", Title: "First"}}}
	s, _ := newTestShell(t, store)
	require.NoError(t, s.cache.Refresh(context.Background()))

	_, err := s.resolveTarget("")
	assert.Error(t, err)

	_, err = s.resolveTarget("9")
	assert.ErrorContains(t, err, "no conversation number 9")

	_, err = s.resolveTarget("missing-id")
	assert.ErrorContains(t, err, "unknown conversation")
}

func TestDispatchExitAndUnknown(t *testing.T) {
	s, out := newTestShell(t, &stubStore{})

	assert.True(t, s.dispatch(context.Background(), nil, "/exit"))
	assert.True(t, s.dispatch(context.Background(), nil, "/quit"))

	assert.False(t, s.dispatch(context.Background(), nil, "/bogus"))
	assert.Contains(t, out.String(), "Unknown command /bogus")
}

func TestCmdListShowsConversations(t *testing.T) {
	store := &stubStore{summaries: []chattypes.ChatSummary{
		{ID: "id-one", Title: "Leave policy"},
	}}
	s, out := newTestShell(t, store)

	s.cmdList(context.Background())

	assert.Contains(t, out.String(), "Leave policy")
}

func TestCmdRenameUpdatesStoreAndCache(t *testing.T) {
	store := &stubStore{summaries: []chattypes.ChatSummary{
		{ID: "id-one", Title: "Old title"},
	}}
	s, out := newTestShell(t, store)
	require.NoError(t, s.cache.Refresh(context.Background()))

	s.cmdRename(context.Background(), "1 New title")

	assert.Equal(t, "New title", store.renamed["id-one"])
	summary, ok := s.cache.Lookup("id-one")
	require.True(t, ok)
	assert.Equal(t, "New title", summary.Title)
	assert.Contains(t, out.String(), "Renamed to New title")
}

func TestCmdRenameUsage(t *testing.T) {
	s, out := newTestShell(t, &stubStore{})

	s.cmdRename(context.Background(), "1")

	assert.Contains(t, out.String(), "Usage: /rename")
}

func TestCmdDeleteRemovesConversation(t *testing.T) {
	store := &stubStore{summaries: []chattypes.ChatSummary{
		{ID: "id-one", Title: "First"},
		{ID: "id-two", Title: "Second"},
	}}
	s, out := newTestShell(t, store)
	require.NoError(t, s.cache.Refresh(context.Background()))

	s.cmdDelete(context.Background(), "1")

	assert.Equal(t, []string{"id-one"}, store.deleted)
	_, ok := s.cache.Lookup("id-one")
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Deleted")
}

func TestCmdThemeSwitchAndToggle(t *testing.T) {
	s, out := newTestShell(t, &stubStore{})

	s.cmdTheme("dark")
	assert.Equal(t, "dark", s.themes.CurrentName())

	s.cmdTheme("")
	assert.Equal(t, "light", s.themes.CurrentName())

	s.cmdTheme("bogus")
	assert.Contains(t, out.String(), "unknown theme")
	assert.Equal(t, "light", s.themes.CurrentName())
}

func TestSubmitTurnPrintsAnswer(t *testing.T) {
	s, out := newTestShell(t, &stubStore{})

	s.submitTurn(context.Background(), "How do I request leave?")

	assert.Contains(t, out.String(), "an answer")
	assert.Equal(t, "an answer", s.lastAnswer)
	assert.Equal(t, "created", s.ctrl.ID())
}

func TestSubmitTurnFailureShowsApology(t *testing.T) {
	s, out := newTestShellWith(t, &stubStore{}, stubAnswerer{err: errors.New("answer service down")})

	s.submitTurn(context.Background(), "How do I request leave?")

	assert.Contains(t, out.String(), chat.ErrorReply)
	assert.Empty(t, s.lastAnswer)
}

func TestSubmitTurnBotAppendFailureShowsAnswerThenApology(t *testing.T) {
	s, out := newTestShellWith(t, &stubStore{failBotAppend: true}, stubAnswerer{})

	s.submitTurn(context.Background(), "How do I request leave?")

	printed := out.String()
	answerAt := strings.Index(printed, "an answer")
	apologyAt := strings.Index(printed, chat.ErrorReply)
	require.GreaterOrEqual(t, answerAt, 0)
	require.GreaterOrEqual(t, apologyAt, 0)
	assert.Less(t, answerAt, apologyAt)
	assert.Empty(t, s.lastAnswer)
}

func TestNewPropagatesTestMode(t *testing.T) {
	cfg, err := config.NewWithDir(t.TempDir())
	require.NoError(t, err)

	s, err := New(cfg, true)
	require.NoError(t, err)
	assert.True(t, s.ctrl.TestMode())

	s, err = New(cfg, false)
	require.NoError(t, err)
	assert.False(t, s.ctrl.TestMode())
}

func TestNewAttachesDebugTransportAtDebugLevel(t *testing.T) {
	cfg, err := config.NewWithDir(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, logger.Configure("debug", "", false))
	defer func() { _ = logger.Configure("warn", "", false) }()

	s, err := New(cfg, false)
	require.NoError(t, err)
	assert.NotNil(t, s.debug)

	require.NoError(t, logger.Configure("warn", "", false))
	s, err = New(cfg, false)
	require.NoError(t, err)
	assert.Nil(t, s.debug)
}
