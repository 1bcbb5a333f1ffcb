package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/handybox/handybox/internal/inference"
	"github.com/handybox/handybox/internal/tool"
)

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	infos := h.registry.List()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	writeJSON(w, http.StatusOK, map[string]any{"tools": infos})
}

func (h *Handler) RunTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	t, err := h.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}

	defer r.Body.Close()
	params, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(params) == 0 {
		params = []byte("{}")
	}
	if !json.Valid(params) {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	// Accept both a raw params object and a {"params": {...}} envelope.
	var envelope struct {
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(params, &envelope); err == nil && len(envelope.Params) > 0 {
		params = envelope.Params
	}

	result, err := t.Run(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, tool.ErrBadParams):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, inference.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "inference backend not configured")
		case errors.Is(err, inference.ErrUpstream):
			h.logger.Warn("inference upstream failed", "tool", name, "error", err)
			writeError(w, http.StatusBadGateway, "inference backend error")
		default:
			h.logger.Error("tool run failed", "tool", name, "error", err)
			writeError(w, http.StatusInternalServerError, "tool execution failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tool":   name,
		"result": result,
	})
}
