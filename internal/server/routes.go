package server

import "net/http"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/health", s.api.Health)
	mux.HandleFunc("GET /api/v1/tools", s.api.ListTools)
	mux.HandleFunc("POST /api/v1/tools/{name}", s.api.RunTool)
	mux.HandleFunc("GET /api/v1/diff/live", s.handleLiveDiff)

	logsAuth := s.api.Auth
	mux.Handle("GET /api/v1/logs", logsAuth(http.HandlerFunc(s.api.ListRequestLogs)))
	mux.Handle("GET /api/v1/logs/stats", logsAuth(http.HandlerFunc(s.api.RequestLogStats)))
}
