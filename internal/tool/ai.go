package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/inference"
	"github.com/handybox/handybox/internal/validate"
)

// The AI-backed tools share one shape: validate the text, build a
// prompt, send it to the configured completion endpoint and return the
// reply verbatim. inference.ErrNotConfigured passes through so the API
// layer can answer 503.

type aiTextParams struct {
	Text string `json:"text"`
}

func runPrompt(ctx context.Context, client inference.Client, limits config.ToolsConfig, system, text string, maxTokens int) (any, error) {
	if client == nil {
		return nil, inference.ErrNotConfigured
	}
	if err := validate.Required("text", text); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("text", text, limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	completion, err := client.Complete(ctx, &inference.Request{
		Messages: []inference.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"result": strings.TrimSpace(completion.Content),
		"model":  completion.Model,
	}, nil
}

// SummarizeTool condenses a text into a short summary.
type SummarizeTool struct {
	Client inference.Client
	Limits config.ToolsConfig
}

func (t *SummarizeTool) Name() string { return "summarize" }

func (t *SummarizeTool) Describe() string {
	return "Summarize a text into a few sentences"
}

type summarizeParams struct {
	Text string `json:"text"`
	// Sentences caps the summary length; default 3.
	Sentences int `json:"sentences,omitempty"`
}

func (t *SummarizeTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p summarizeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if p.Sentences <= 0 {
		p.Sentences = 3
	}
	system := fmt.Sprintf("Summarize the user's text in at most %d sentences. Reply with the summary only.", p.Sentences)
	return runPrompt(ctx, t.Client, t.Limits, system, p.Text, 1024)
}

// GrammarTool corrects spelling and grammar without changing meaning.
type GrammarTool struct {
	Client inference.Client
	Limits config.ToolsConfig
}

func (t *GrammarTool) Name() string { return "grammar" }

func (t *GrammarTool) Describe() string {
	return "Correct spelling and grammar while preserving the text's meaning"
}

func (t *GrammarTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p aiTextParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	system := "Correct the spelling and grammar of the user's text. Preserve the meaning, tone and formatting. Reply with the corrected text only."
	return runPrompt(ctx, t.Client, t.Limits, system, p.Text, 4096)
}

// CaptionTool writes a short caption for a base64-encoded image or,
// without an image, for a text.
type CaptionTool struct {
	Client inference.Client
	Limits config.ToolsConfig
}

func (t *CaptionTool) Name() string { return "caption" }

func (t *CaptionTool) Describe() string {
	return "Generate a short caption for an image or a text"
}

type captionParams struct {
	Text string `json:"text,omitempty"`
	// Image is the base64-encoded image data.
	Image string `json:"image,omitempty"`
	// Mime defaults to image/png.
	Mime string `json:"mime,omitempty"`
}

func (t *CaptionTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p captionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if t.Client == nil {
		return nil, inference.ErrNotConfigured
	}
	if p.Image == "" && strings.TrimSpace(p.Text) == "" {
		return nil, badParams("image or text is required")
	}
	if err := validate.TextBytes("image", p.Image, 4*t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("text", p.Text, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	user := inference.Message{Role: "user", Content: p.Text}
	if p.Image != "" {
		if _, err := base64.StdEncoding.DecodeString(p.Image); err != nil {
			return nil, badParams("invalid base64 image: %v", err)
		}
		mime := p.Mime
		if mime == "" {
			mime = "image/png"
		}
		user.Image = "data:" + mime + ";base64," + p.Image
		if user.Content == "" {
			user.Content = "Caption this image."
		}
	}

	completion, err := t.Client.Complete(ctx, &inference.Request{
		Messages: []inference.Message{
			{Role: "system", Content: "Write a single short caption, at most ten words. Reply with the caption only."},
			user,
		},
		MaxTokens: 64,
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"result": strings.TrimSpace(completion.Content),
		"model":  completion.Model,
	}, nil
}
