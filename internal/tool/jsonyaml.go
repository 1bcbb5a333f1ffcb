package tool

import (
	"bytes"
	"context"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/validate"
)

// JSONYAMLTool converts between JSON and YAML and pretty-prints either.
type JSONYAMLTool struct {
	Limits config.ToolsConfig
}

func (t *JSONYAMLTool) Name() string { return "jsonyaml" }

func (t *JSONYAMLTool) Describe() string {
	return "Convert between JSON and YAML, or pretty-print either format"
}

type jsonYAMLParams struct {
	Text string `json:"text"`
	// Action is one of json2yaml, yaml2json, formatjson.
	Action string `json:"action"`
	Indent int    `json:"indent,omitempty"`
}

func (t *JSONYAMLTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p jsonYAMLParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.OneOf("action", p.Action, "json2yaml", "yaml2json", "formatjson"); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("text", p.Text, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}
	if p.Indent <= 0 {
		p.Indent = 2
	}

	switch p.Action {
	case "json2yaml":
		var doc any
		if err := json.Unmarshal([]byte(p.Text), &doc); err != nil {
			return nil, badParams("invalid JSON: %v", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(p.Indent)
		if err := enc.Encode(doc); err != nil {
			return nil, badParams("cannot encode as YAML: %v", err)
		}
		enc.Close()
		return map[string]string{"result": buf.String()}, nil

	case "yaml2json":
		var doc any
		if err := yaml.Unmarshal([]byte(p.Text), &doc); err != nil {
			return nil, badParams("invalid YAML: %v", err)
		}
		out, err := json.MarshalIndent(normalizeYAML(doc), "", indentString(p.Indent))
		if err != nil {
			return nil, badParams("cannot encode as JSON: %v", err)
		}
		return map[string]string{"result": string(out)}, nil

	default: // formatjson
		var doc any
		if err := json.Unmarshal([]byte(p.Text), &doc); err != nil {
			return nil, badParams("invalid JSON: %v", err)
		}
		out, err := json.MarshalIndent(doc, "", indentString(p.Indent))
		if err != nil {
			return nil, err
		}
		return map[string]string{"result": string(out)}, nil
	}
}

func indentString(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = ' '
	}
	return string(s)
}

// normalizeYAML rewrites map[any]any keys as strings so the document
// can be marshaled as JSON. yaml.v3 mostly produces map[string]any
// already, but non-string keys are still legal YAML.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = normalizeYAML(val)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[toString(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range v {
			v[i] = normalizeYAML(val)
		}
		return v
	default:
		return v
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(bytes.Trim(raw, `"`))
}
