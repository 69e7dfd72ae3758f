package api

import (
	"context"
	"net/http"

	"hrchat/pkg/chattypes"
)

// StoreClient talks to the conversation store's /api/chats resources.
// Every operation requires an established session.
type StoreClient struct {
	*Client
}

// NewStoreClient creates a conversation store client for the given base URL.
func NewStoreClient(baseURL string, tokens TokenSource) *StoreClient {
	return &StoreClient{Client: NewClient(baseURL, tokens)}
}

// createChatRequest seeds a new conversation with its first message.
type createChatRequest struct {
	InitialMessage string           `json:"initialMessage"`
	Sender         chattypes.Sender `json:"sender"`
}

// createChatResponse wraps the created conversation summary.
type createChatResponse struct {
	Chat chattypes.ChatSummary `json:"chat"`
}

// appendMessageRequest appends one message to an existing conversation.
type appendMessageRequest struct {
	ChatID  string           `json:"chatId"`
	Message string           `json:"message"`
	Sender  chattypes.Sender `json:"sender"`
}

// getChatResponse carries the full transcript of one conversation.
type getChatResponse struct {
	Messages []chattypes.Message `json:"messages"`
}

// renameChatRequest updates a conversation's title.
type renameChatRequest struct {
	Title string `json:"title"`
}

// ListChats returns every conversation summary visible to the session.
func (s *StoreClient) ListChats(ctx context.Context) ([]chattypes.ChatSummary, error) {
	var summaries []chattypes.ChatSummary
	if err := s.doJSON(ctx, http.MethodGet, "/api/chats/", nil, &summaries, true); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateChat starts a new conversation seeded with the given message and
// returns its summary.
func (s *StoreClient) CreateChat(ctx context.Context, initialMessage string, sender chattypes.Sender) (chattypes.ChatSummary, error) {
	req := createChatRequest{InitialMessage: initialMessage, Sender: sender}
	var resp createChatResponse
	if err := s.doJSON(ctx, http.MethodPost, "/api/chats/new", req, &resp, true); err != nil {
		return chattypes.ChatSummary{}, err
	}
	return resp.Chat, nil
}

// AppendMessage appends one message to an existing conversation.
func (s *StoreClient) AppendMessage(ctx context.Context, chatID, message string, sender chattypes.Sender) error {
	req := appendMessageRequest{ChatID: chatID, Message: message, Sender: sender}
	return s.doJSON(ctx, http.MethodPost, "/api/chats/append", req, nil, true)
}

// GetChat fetches the full message sequence for a conversation.
func (s *StoreClient) GetChat(ctx context.Context, chatID string) ([]chattypes.Message, error) {
	var resp getChatResponse
	if err := s.doJSON(ctx, http.MethodGet, "/api/chats/"+chatID, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// RenameChat updates the title of a conversation and returns the updated
// summary.
func (s *StoreClient) RenameChat(ctx context.Context, chatID, title string) (chattypes.ChatSummary, error) {
	var summary chattypes.ChatSummary
	if err := s.doJSON(ctx, http.MethodPut, "/api/chats/"+chatID, renameChatRequest{Title: title}, &summary, true); err != nil {
		return chattypes.ChatSummary{}, err
	}
	return summary, nil
}

// DeleteChat removes a conversation from the store.
func (s *StoreClient) DeleteChat(ctx context.Context, chatID string) error {
	return s.doJSON(ctx, http.MethodDelete, "/api/chats/"+chatID, nil, nil, true)
}
