package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCompleteNotConfigured(t *testing.T) {
	c := NewHTTPClient("", "", "", time.Second)
	_, err := c.Complete(context.Background(), &Request{})
	if err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello"}},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-model", "test-key", time.Second)
	got, err := c.Complete(context.Background(), &Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Content != "hello" {
		t.Errorf("content = %q, want %q", got.Content, "hello")
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "m", "", time.Second)
	_, err := c.Complete(context.Background(), &Request{})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestEncodeMessagesWithImage(t *testing.T) {
	msgs := encodeMessages([]Message{
		{Role: "user", Content: "describe this", Image: "data:image/png;base64,AAAA"},
	})
	parts, ok := msgs[0].Content.([]chatContentPart)
	if !ok {
		t.Fatalf("content = %T, want []chatContentPart", msgs[0].Content)
	}
	if len(parts) != 2 || parts[0].Type != "text" || parts[1].Type != "image_url" {
		t.Fatalf("unexpected parts: %+v", parts)
	}
	if parts[1].ImageURL.URL != "data:image/png;base64,AAAA" {
		t.Fatalf("image url = %q", parts[1].ImageURL.URL)
	}

	plain := encodeMessages([]Message{{Role: "user", Content: "hi"}})
	if s, ok := plain[0].Content.(string); !ok || s != "hi" {
		t.Fatalf("plain content = %v", plain[0].Content)
	}
}
