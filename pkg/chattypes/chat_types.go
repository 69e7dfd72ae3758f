// Package chattypes defines the shared data types for HRChat.
// This file contains the conversation-facing types: messages, conversation
// summaries, and the turn lifecycle state used by the conversation controller.
package chattypes

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	// SenderUser marks a message typed by the signed-in user.
	SenderUser Sender = "user"

	// SenderBot marks a message produced by the answer service (or a
	// locally synthesized error reply).
	SenderBot Sender = "bot"
)

// Message is a single entry in a conversation transcript.
// The wire format is exactly what the conversation store sends back from
// GET /api/chats/{id}.
type Message struct {
	Content string `json:"content"`
	Sender  Sender `json:"sender"`
}

// ChatSummary is one entry in the user's conversation list.
// The store identifies conversations with an opaque `_id` and an optional
// user-assigned title.
type ChatSummary struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
}

// DisplayTitle returns the title to render in the conversation list.
// Untitled conversations fall back to "Chat " plus the last six characters
// of the identifier; titled ones get their first rune capitalized.
func (s ChatSummary) DisplayTitle() string {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		id := s.ID
		if len(id) > 6 {
			id = id[len(id)-6:]
		}
		return "Chat " + id
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}

// Chat is a fully loaded conversation: its summary plus the ordered
// transcript.
type Chat struct {
	ID       string    `json:"_id"`
	Title    string    `json:"title,omitempty"`
	Messages []Message `json:"messages"`
}

// TurnPhase is the lifecycle state of the current turn in the active
// conversation. A turn moves Idle -> Pending -> Settled and back to Pending
// only when the next submission is accepted.
type TurnPhase int

const (
	// TurnIdle means no turn has been submitted yet for the current
	// conversation.
	TurnIdle TurnPhase = iota

	// TurnPending means a submitted turn is still in flight; further
	// submissions are rejected, not queued.
	TurnPending

	// TurnSettledOK means the last turn completed with a bot answer.
	TurnSettledOK

	// TurnSettledErr means the last turn ended with the synthetic error
	// reply.
	TurnSettledErr
)

// String returns a human-readable name for the turn phase.
func (p TurnPhase) String() string {
	switch p {
	case TurnIdle:
		return "idle"
	case TurnPending:
		return "pending"
	case TurnSettledOK:
		return "settled"
	case TurnSettledErr:
		return "settled-error"
	default:
		return "unknown"
	}
}

// Pending reports whether a turn is currently in flight.
func (p TurnPhase) Pending() bool {
	return p == TurnPending
}
