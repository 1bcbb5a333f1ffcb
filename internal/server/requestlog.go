package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/handybox/handybox/internal/httputil"
	"github.com/handybox/handybox/internal/storage"
)

const (
	requestLogChanSize      = 4096
	requestLogBatchSize     = 100
	requestLogFlushInterval = 5 * time.Second
)

// RequestLogWriter batches request logs and flushes them to storage off
// the request path. Send never blocks; logs are dropped when the
// channel is full.
type RequestLogWriter struct {
	ch     chan *storage.RequestLog
	store  storage.Store
	logger *slog.Logger
}

func NewRequestLogWriter(store storage.Store, logger *slog.Logger) *RequestLogWriter {
	return &RequestLogWriter{
		ch:     make(chan *storage.RequestLog, requestLogChanSize),
		store:  store,
		logger: logger,
	}
}

func (w *RequestLogWriter) Send(log *storage.RequestLog) {
	select {
	case w.ch <- log:
	default:
	}
}

func (w *RequestLogWriter) Run(ctx context.Context) {
	ticker := time.NewTicker(requestLogFlushInterval)
	defer ticker.Stop()

	var batch []*storage.RequestLog

	flush := func(fctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := w.store.InsertRequestLogBatch(fctx, batch); err != nil {
			w.logger.Error("request log batch insert failed", "count", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush(context.Background())
			return
		case log := <-w.ch:
			batch = append(batch, log)
			if len(batch) >= requestLogBatchSize {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

func requestLogMiddleware(writer *RequestLogWriter, trustedNets []net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if shouldSkipLog(path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &httputil.StatusWriter{ResponseWriter: w, Code: 200}
			next.ServeHTTP(sw, r)
			latency := time.Since(start).Milliseconds()

			ip := httputil.ExtractIP(r, trustedNets)

			writer.Send(&storage.RequestLog{
				Method:     r.Method,
				Path:       path,
				StatusCode: sw.Code,
				LatencyMs:  latency,
				ClientIP:   ip,
				UserAgent:  truncate(r.UserAgent(), 512),
				Referer:    truncate(r.Referer(), 512),
				Tool:       extractToolName(path),
				RouteGroup: classifyRoute(path),
				CreatedAt:  start.UTC(),
			})
		})
	}
}

func shouldSkipLog(path string) bool {
	return path == "/api/v1/health"
}

func classifyRoute(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/tools"):
		return "tools"
	case strings.HasPrefix(path, "/api/v1/diff/live"):
		return "live"
	case strings.HasPrefix(path, "/api/v1/logs"):
		return "logs"
	case strings.HasPrefix(path, "/api/v1/"):
		return "api"
	default:
		return "other"
	}
}

// extractToolName pulls the tool name out of /api/v1/tools/{name}.
func extractToolName(path string) string {
	const prefix = "/api/v1/tools/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	name := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return name
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
