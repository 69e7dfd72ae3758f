// Package chat implements the conversation lifecycle for HRChat: the active
// conversation controller that runs the turn protocol against the remote
// store and answer service, and the cache mirroring the user's conversation
// list.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hrchat/internal/logger"
	"hrchat/internal/testutils"
	"hrchat/pkg/chattypes"
)

// ErrorReply is the synthetic bot message appended when any part of a turn
// fails.
const ErrorReply = "Sorry, something went wrong. Please try again."

var (
	// ErrTurnPending is returned when an operation is attempted while a
	// turn is in flight. Submissions are rejected, never queued, and
	// switching conversations mid-turn is disallowed.
	ErrTurnPending = errors.New("a turn is already in flight")

	// ErrEmptyInput is returned when the submitted text trims to nothing.
	ErrEmptyInput = errors.New("message is empty")

	// ErrConversationChanged is returned by Load when the conversation
	// state moved on while the transcript was being fetched.
	ErrConversationChanged = errors.New("conversation changed while loading")
)

// Store is the conversation store surface the controller and cache need.
// *api.StoreClient satisfies it.
type Store interface {
	ListChats(ctx context.Context) ([]chattypes.ChatSummary, error)
	CreateChat(ctx context.Context, initialMessage string, sender chattypes.Sender) (chattypes.ChatSummary, error)
	AppendMessage(ctx context.Context, chatID, message string, sender chattypes.Sender) error
	GetChat(ctx context.Context, chatID string) ([]chattypes.Message, error)
	RenameChat(ctx context.Context, chatID, title string) (chattypes.ChatSummary, error)
	DeleteChat(ctx context.Context, chatID string) error
}

// Answerer is the answer service surface. *api.AnswerClient satisfies it.
type Answerer interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Snapshot is a read-only view of the controller state for rendering.
// The presentation layer holds no authority over any of it.
type Snapshot struct {
	ID       string
	Messages []chattypes.Message
	Phase    chattypes.TurnPhase
	Err      error
}

// Controller owns the active conversation: its identity, its message
// sequence, and the lifecycle of the current turn. At most one turn is in
// flight at a time; the conversation identifier transitions from absent to
// present exactly once, when the store accepts the first turn.
type Controller struct {
	store    Store
	answers  Answerer
	testMode bool

	onCreate func(chattypes.ChatSummary)

	mu       sync.Mutex
	id       string
	messages []chattypes.Message
	phase    chattypes.TurnPhase
	lastErr  error
	gen      uint64
}

// NewController creates a controller in the "new, unsaved" state.
func NewController(store Store, answers Answerer) *Controller {
	return &Controller{
		store:   store,
		answers: answers,
	}
}

// SetTestMode enables deterministic turn identifiers.
func (c *Controller) SetTestMode(enabled bool) {
	c.testMode = enabled
}

// TestMode reports whether deterministic turn identifiers are enabled.
func (c *Controller) TestMode() bool {
	return c.testMode
}

// OnConversationCreated registers a hook invoked when the first turn of a
// new conversation is accepted by the store. The list cache uses it to pick
// up the new summary without a full refresh.
func (c *Controller) OnConversationCreated(fn func(chattypes.ChatSummary)) {
	c.onCreate = fn
}

// ID returns the active conversation identifier, empty for a new unsaved
// conversation.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages := make([]chattypes.Message, len(c.messages))
	copy(messages, c.messages)
	return Snapshot{
		ID:       c.id,
		Messages: messages,
		Phase:    c.phase,
		Err:      c.lastErr,
	}
}

// StartNew resets to the "new, unsaved" state: no identifier, no messages.
// It never touches the remote store. Rejected only while a turn is pending.
func (c *Controller) StartNew() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase.Pending() {
		return ErrTurnPending
	}
	c.id = ""
	c.messages = nil
	c.phase = chattypes.TurnIdle
	c.lastErr = nil
	c.gen++
	return nil
}

// Load fetches the full transcript for the given conversation and makes it
// active. On any failure the prior state is left untouched and the error is
// returned. Rejected while a turn is pending, and aborted with
// ErrConversationChanged when a turn was accepted during the fetch.
func (c *Controller) Load(ctx context.Context, chatID string) error {
	c.mu.Lock()
	if c.phase.Pending() {
		c.mu.Unlock()
		return ErrTurnPending
	}
	gen := c.gen
	c.mu.Unlock()

	messages, err := c.store.GetChat(ctx, chatID)
	if err != nil {
		logger.Error("Failed to load conversation", "chat_id", chatID, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase.Pending() {
		return ErrTurnPending
	}
	if c.gen != gen {
		return ErrConversationChanged
	}
	c.gen++
	c.id = chatID
	c.messages = messages
	c.phase = chattypes.TurnIdle
	c.lastErr = nil
	return nil
}

// SubmitTurn runs one turn of the conversation protocol:
//
//  1. The user message is appended locally before any network call.
//  2. Without an identifier, the turn creates the conversation with the text
//     as seed; the returned identifier is adopted and the create hook fires.
//  3. With an identifier, the user message is appended remotely.
//  4. The text goes to the answer service; the answer is appended locally
//     first, then remotely.
//  5. Any failure after step 1 appends ErrorReply as a bot message; when the
//     remote append of the answer fails, the answer stays and ErrorReply
//     follows it.
//
// The returned message is the last bot message of the turn (the answer or
// ErrorReply).
// A non-nil error is returned only for rejected submissions: empty input or
// a turn already pending, both of which leave all state unchanged. Failures
// inside an accepted turn settle the turn and are exposed via Snapshot.
func (c *Controller) SubmitTurn(ctx context.Context, text string) (chattypes.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return chattypes.Message{}, ErrEmptyInput
	}

	c.mu.Lock()
	if c.phase.Pending() {
		c.mu.Unlock()
		return chattypes.Message{}, ErrTurnPending
	}
	turnID := testutils.GenerateUUID(c.testMode)
	c.phase = chattypes.TurnPending
	c.lastErr = nil
	c.gen++
	c.messages = append(c.messages, chattypes.Message{Content: trimmed, Sender: chattypes.SenderUser})
	chatID := c.id
	c.mu.Unlock()

	logger.Debug("Turn submitted", "turn", turnID, "chat_id", chatID, "new_conversation", chatID == "")

	if chatID == "" {
		summary, err := c.store.CreateChat(ctx, trimmed, chattypes.SenderUser)
		if err != nil {
			logger.Error("Failed to create conversation", "turn", turnID, "error", err)
			return c.settle(err), nil
		}
		c.mu.Lock()
		c.id = summary.ID
		c.mu.Unlock()
		chatID = summary.ID
		if c.onCreate != nil {
			c.onCreate(summary)
		}
	} else {
		if err := c.store.AppendMessage(ctx, chatID, trimmed, chattypes.SenderUser); err != nil {
			logger.Error("Failed to append user message", "turn", turnID, "chat_id", chatID, "error", err)
			return c.settle(err), nil
		}
	}

	answer, err := c.answers.Ask(ctx, trimmed)
	if err != nil {
		logger.Error("Answer service failed", "turn", turnID, "chat_id", chatID, "error", err)
		return c.settle(err), nil
	}

	reply := chattypes.Message{Content: answer, Sender: chattypes.SenderBot}
	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.mu.Unlock()

	// The answer stays in the local view either way; a failed remote
	// append leaves the stored conversation short one bot message and
	// settles the turn with the error notice after it.
	if err := c.store.AppendMessage(ctx, chatID, answer, chattypes.SenderBot); err != nil {
		logger.Error("Failed to persist bot message", "turn", turnID, "chat_id", chatID, "error", err)
		return c.settle(err), nil
	}

	c.mu.Lock()
	c.phase = chattypes.TurnSettledOK
	c.mu.Unlock()
	return reply, nil
}

// settle ends a failed turn: the synthetic error reply is appended and the
// turn state records the underlying error.
func (c *Controller) settle(cause error) chattypes.Message {
	reply := chattypes.Message{Content: ErrorReply, Sender: chattypes.SenderBot}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, reply)
	c.phase = chattypes.TurnSettledErr
	c.lastErr = cause
	return reply
}
