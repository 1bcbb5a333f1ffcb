package api

import (
	"context"
	"net/http"

	"github.com/handybox/handybox/internal/httputil"
)

// Auth guards the log endpoints with an X-API-Key header check. Keys
// are compared as SHA-256 hashes in constant time.
func (h *Handler) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" {
			writeError(w, http.StatusUnauthorized, "missing API key")
			return
		}

		apiKey, ok := h.cfg.LookupAPIKey(key)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		ctx := context.WithValue(r.Context(), httputil.CtxKeyAPIKey, apiKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
