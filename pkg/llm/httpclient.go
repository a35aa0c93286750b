package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRequestTimeout = 60 * time.Second

// Config holds provider connection settings. The provider is expected to
// expose an OpenAI-compatible chat-completions endpoint.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	SearchModel    string
	RequestTimeout time.Duration
}

// HTTPClient is a Client backed by an HTTP chat-completions API. It is
// constructed explicitly at startup and injected into the stage runner;
// there is no lazily initialized global provider.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a provider client. Search-backed requests are routed
// to cfg.SearchModel when set, otherwise to cfg.Model.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: &RetryableRoundTripper{},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	WebSearch bool          `json:"web_search,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := c.cfg.Model
	if req.WebSearch && c.cfg.SearchModel != "" {
		model = c.cfg.SearchModel
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		WebSearch: req.WebSearch,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", Transient(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", Transient(fmt.Errorf("provider returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", ErrMalformedOutput
	}
	if len(parsed.Choices) == 0 {
		return "", ErrMalformedOutput
	}
	return parsed.Choices[0].Message.Content, nil
}
