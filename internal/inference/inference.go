// Package inference provides a minimal client for OpenAI-compatible
// chat completion endpoints. Tools that need a language model go
// through the Client interface so tests can substitute a stub.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no inference backend is configured.
var ErrNotConfigured = errors.New("inference backend not configured")

// ErrUpstream marks failures of the inference backend itself, as opposed
// to local request-building problems.
var ErrUpstream = errors.New("inference upstream error")

// Message is a single chat message. Image, when set, is a data URL
// attached alongside the text the way vision-capable chat endpoints
// expect it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Image   string `json:"-"`
}

// Request describes a completion request.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Completion is the model's reply.
type Completion struct {
	Content string
	Model   string
}

// Client produces completions for tool requests.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Completion, error)
}

// HTTPClient talks to an OpenAI-compatible /v1/chat/completions endpoint.
type HTTPClient struct {
	url    string
	model  string
	apiKey string
	client *http.Client
}

// NewHTTPClient returns a client for the given endpoint. An empty URL
// yields a client whose Complete always returns ErrNotConfigured.
func NewHTTPClient(url, model, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

// encodeMessages keeps plain-text messages as strings and switches to
// the content-part form only when an image is attached.
func encodeMessages(msgs []Message) []chatMessage {
	out := make([]chatMessage, len(msgs))
	for i, m := range msgs {
		if m.Image == "" {
			out[i] = chatMessage{Role: m.Role, Content: m.Content}
			continue
		}
		parts := []chatContentPart{}
		if m.Content != "" {
			parts = append(parts, chatContentPart{Type: "text", Text: m.Content})
		}
		parts = append(parts, chatContentPart{Type: "image_url", ImageURL: &chatImageURL{URL: m.Image}})
		out[i] = chatMessage{Role: m.Role, Content: parts}
	}
	return out
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *HTTPClient) Complete(ctx context.Context, req *Request) (*Completion, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    encodeMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response (status %d): %v", ErrUpstream, resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrUpstream)
	}

	return &Completion{
		Content: parsed.Choices[0].Message.Content,
		Model:   parsed.Model,
	}, nil
}
