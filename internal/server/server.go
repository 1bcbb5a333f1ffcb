// Package server assembles the HTTP handler: routing, middleware and
// the asynchronous request log writer.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/handybox/handybox/internal/api"
	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/httputil"
	"github.com/handybox/handybox/internal/storage"
	"github.com/handybox/handybox/internal/tool"
)

var _ http.Handler = (*Server)(nil)

type Server struct {
	cfg          *config.Config
	store        storage.Store
	registry     *tool.Registry
	logger       *slog.Logger
	api          *api.Handler
	handler      http.Handler
	reqLogWriter *RequestLogWriter
}

func NewServer(cfg *config.Config, store storage.Store, registry *tool.Registry, logger *slog.Logger) *Server {
	s := &Server{
		cfg:          cfg,
		store:        store,
		registry:     registry,
		logger:       logger,
		reqLogWriter: NewRequestLogWriter(store, logger),
	}

	s.api = api.New(cfg, store, registry, logger)

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var handler http.Handler = mux
	handler = bodyLimit(cfg.Server.MaxBodySize)(handler)
	rl := httputil.NewRateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst)
	handler = rl.Middleware(cfg.TrustedNets(), writeError)(handler)
	handler = cors(cfg.Server.CORSOrigins)(handler)
	handler = secureHeaders()(handler)
	handler = requestLogMiddleware(s.reqLogWriter, cfg.TrustedNets())(handler)
	handler = logging(logger)(handler)
	handler = requestID()(handler)
	handler = recovery(logger)(handler)

	s.handler = handler
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RequestLogWriter() *RequestLogWriter {
	return s.reqLogWriter
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
