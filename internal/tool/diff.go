package tool

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/diff"
	"github.com/handybox/handybox/internal/validate"
)

// DiffTool compares two texts line-by-line or word-by-word.
type DiffTool struct {
	Limits config.ToolsConfig
}

func (t *DiffTool) Name() string { return "diff" }

func (t *DiffTool) Describe() string {
	return "Compare two texts and report added, removed and unchanged segments"
}

type diffParams struct {
	Original string `json:"original"`
	Modified string `json:"modified"`
	Mode     string `json:"mode"`
}

type diffResult struct {
	Mode    diff.Mode    `json:"mode"`
	Entries []diff.Entry `json:"entries"`
	Stats   diff.Stats   `json:"stats"`
	Unified string       `json:"unified"`
}

func (t *DiffTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p diffParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if p.Mode == "" {
		p.Mode = string(diff.ModeLine)
	}
	if err := validate.OneOf("mode", p.Mode, string(diff.ModeLine), string(diff.ModeWord)); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("original", p.Original, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("modified", p.Modified, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	mode := diff.Mode(p.Mode)
	if err := validate.TokenCount("original", len(diff.Tokenize(p.Original, mode)), t.Limits.MaxTokens); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TokenCount("modified", len(diff.Tokenize(p.Modified, mode)), t.Limits.MaxTokens); err != nil {
		return nil, badParams("%v", err)
	}

	res, err := diff.Compare(p.Original, p.Modified, mode)
	if err != nil {
		if errors.Is(err, diff.ErrInvalidMode) {
			return nil, badParams("%v", err)
		}
		return nil, err
	}

	return &diffResult{
		Mode:    res.Mode,
		Entries: res.Entries,
		Stats:   res.Stats,
		Unified: diff.Unified(res),
	}, nil
}
