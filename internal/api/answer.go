package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AnswerClient talks to the answer service: a stateless, unauthenticated
// endpoint that turns a free-text question into a generated answer.
type AnswerClient struct {
	*Client
	askPath string
}

// NewAnswerClient creates an answer service client. The endpoint is the full
// URL, e.g. "https://assistant.example.com/ask".
func NewAnswerClient(endpoint string) (*AnswerClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid answer service URL %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid answer service URL %q: missing scheme or host", endpoint)
	}

	askPath := u.Path
	if askPath == "" {
		askPath = "/ask"
	}

	return &AnswerClient{
		Client:  NewClient(u.Scheme+"://"+u.Host, nil),
		askPath: askPath,
	}, nil
}

type askRequest struct {
	Text string `json:"text"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask sends the question text and returns the generated answer.
func (a *AnswerClient) Ask(ctx context.Context, text string) (string, error) {
	var resp askResponse
	if err := a.doJSON(ctx, http.MethodPost, a.askPath, askRequest{Text: text}, &resp, false); err != nil {
		return "", err
	}
	if resp.Answer == "" {
		return "", fmt.Errorf("answer service returned an empty answer")
	}
	return resp.Answer, nil
}
