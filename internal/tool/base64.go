package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"unicode/utf8"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/validate"
)

// Base64Tool encodes and decodes base64 in standard or URL-safe alphabets.
type Base64Tool struct {
	Limits config.ToolsConfig
}

func (t *Base64Tool) Name() string { return "base64" }

func (t *Base64Tool) Describe() string {
	return "Encode or decode base64 text, standard or URL-safe alphabet"
}

type base64Params struct {
	Text string `json:"text"`
	// Action is "encode" or "decode".
	Action string `json:"action"`
	// URLSafe selects the URL-safe alphabet.
	URLSafe bool `json:"url_safe,omitempty"`
}

func (t *Base64Tool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p base64Params
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.OneOf("action", p.Action, "encode", "decode"); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("text", p.Text, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	enc := base64.StdEncoding
	if p.URLSafe {
		enc = base64.URLEncoding
	}

	switch p.Action {
	case "encode":
		return map[string]string{"result": enc.EncodeToString([]byte(p.Text))}, nil
	default:
		raw, err := enc.DecodeString(p.Text)
		if err != nil {
			return nil, badParams("invalid base64 input: %v", err)
		}
		if !utf8.Valid(raw) {
			return nil, badParams("decoded data is not valid UTF-8 text")
		}
		return map[string]string{"result": string(raw)}, nil
	}
}
