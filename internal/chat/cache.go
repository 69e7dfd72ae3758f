package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hrchat/internal/logger"
	"hrchat/pkg/chattypes"
)

// ErrEmptyTitle is returned when a rename is attempted with a blank title.
var ErrEmptyTitle = errors.New("title must not be empty")

// ActiveConversation is the controller surface the cache needs when a delete
// removes the conversation currently on screen.
type ActiveConversation interface {
	ID() string
	StartNew() error
}

// ListCache mirrors the set of conversations belonging to the session.
// Refresh replaces it wholesale; create/rename/delete mutate it only after
// the store has confirmed the operation.
type ListCache struct {
	store Store

	mu        sync.RWMutex
	summaries []chattypes.ChatSummary
	active    ActiveConversation
}

// NewListCache creates an empty cache over the given store.
func NewListCache(store Store) *ListCache {
	return &ListCache{store: store}
}

// BindActive wires the active conversation controller so Remove can reset it
// when its conversation disappears.
func (l *ListCache) BindActive(active ActiveConversation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = active
}

// Refresh fetches the full list from the store and replaces the cache.
// Called once after the session is established.
func (l *ListCache) Refresh(ctx context.Context) error {
	summaries, err := l.store.ListChats(ctx)
	if err != nil {
		logger.Error("Failed to refresh conversation list", "error", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.summaries = summaries
	return nil
}

// UpsertFromCreate appends the summary of a conversation the controller just
// created, without a full refresh.
func (l *ListCache) UpsertFromCreate(summary chattypes.ChatSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.summaries {
		if s.ID == summary.ID {
			l.summaries[i] = summary
			return
		}
	}
	l.summaries = append(l.summaries, summary)
}

// Rename updates a conversation's title. The cached summary changes only
// after the store confirms; on failure the cache is untouched and the error
// is returned to be shown to the user.
func (l *ListCache) Rename(ctx context.Context, chatID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	updated, err := l.store.RenameChat(ctx, chatID, title)
	if err != nil {
		logger.Error("Failed to rename conversation", "chat_id", chatID, "error", err)
		return err
	}
	if updated.ID == "" {
		// Some deployments ack without echoing the summary
		updated = chattypes.ChatSummary{ID: chatID, Title: title}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.summaries {
		if s.ID == chatID {
			l.summaries[i] = updated
			return nil
		}
	}
	return nil
}

// Remove deletes a conversation from the store and drops its summary. When
// the removed conversation is the active one, the controller is reset to the
// "new, unsaved" state.
func (l *ListCache) Remove(ctx context.Context, chatID string) error {
	if err := l.store.DeleteChat(ctx, chatID); err != nil {
		logger.Error("Failed to delete conversation", "chat_id", chatID, "error", err)
		return err
	}

	l.mu.Lock()
	kept := l.summaries[:0]
	for _, s := range l.summaries {
		if s.ID != chatID {
			kept = append(kept, s)
		}
	}
	l.summaries = kept
	active := l.active
	l.mu.Unlock()

	if active != nil && active.ID() == chatID {
		return active.StartNew()
	}
	return nil
}

// Summaries returns a copy of the cached conversation list.
func (l *ListCache) Summaries() []chattypes.ChatSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]chattypes.ChatSummary, len(l.summaries))
	copy(out, l.summaries)
	return out
}

// Lookup returns the cached summary for the given identifier.
func (l *ListCache) Lookup(chatID string) (chattypes.ChatSummary, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range l.summaries {
		if s.ID == chatID {
			return s, true
		}
	}
	return chattypes.ChatSummary{}, false
}

// At returns the summary at the given zero-based position, for shell
// commands that address conversations by list number.
func (l *ListCache) At(index int) (chattypes.ChatSummary, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.summaries) {
		return chattypes.ChatSummary{}, false
	}
	return l.summaries[index], true
}
