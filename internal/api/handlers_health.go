package api

import (
	"net/http"
	"runtime"
	"time"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": Version,
		"uptime":  time.Since(h.startTime).String(),
		"go":      runtime.Version(),
	})
}
