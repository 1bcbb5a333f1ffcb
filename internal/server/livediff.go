package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/handybox/handybox/internal/diff"
	"github.com/handybox/handybox/internal/validate"
)

// liveDiffRequest is one comparison request on the live socket.
type liveDiffRequest struct {
	Original string `json:"original"`
	Modified string `json:"modified"`
	Mode     string `json:"mode"`
}

type liveDiffResponse struct {
	Result *diff.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// handleLiveDiff upgrades to a websocket and recomputes the diff for
// every message, so an editor can show changes as the user types.
func (s *Server) handleLiveDiff(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.Server.CORSOrigins,
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	conn.SetReadLimit(int64(2*s.cfg.Tools.MaxTextBytes) + 4096)
	ctx := r.Context()

	for {
		var req liveDiffRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return
			}
			s.logger.Debug("live diff read failed", "error", err)
			return
		}

		resp := s.computeLiveDiff(&req)

		writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := wsjson.Write(writeCtx, conn, resp)
		cancel()
		if err != nil {
			return
		}
	}
}

func (s *Server) computeLiveDiff(req *liveDiffRequest) *liveDiffResponse {
	if req.Mode == "" {
		req.Mode = string(diff.ModeLine)
	}
	limits := s.cfg.Tools
	if err := validate.TextBytes("original", req.Original, limits.MaxTextBytes); err != nil {
		return &liveDiffResponse{Error: err.Error()}
	}
	if err := validate.TextBytes("modified", req.Modified, limits.MaxTextBytes); err != nil {
		return &liveDiffResponse{Error: err.Error()}
	}
	if err := validate.OneOf("mode", req.Mode, string(diff.ModeLine), string(diff.ModeWord)); err != nil {
		return &liveDiffResponse{Error: err.Error()}
	}
	mode := diff.Mode(req.Mode)
	if err := validate.TokenCount("original", len(diff.Tokenize(req.Original, mode)), limits.MaxTokens); err != nil {
		return &liveDiffResponse{Error: err.Error()}
	}
	if err := validate.TokenCount("modified", len(diff.Tokenize(req.Modified, mode)), limits.MaxTokens); err != nil {
		return &liveDiffResponse{Error: err.Error()}
	}

	res, err := diff.Compare(req.Original, req.Modified, mode)
	if err != nil {
		if errors.Is(err, diff.ErrInvalidMode) {
			return &liveDiffResponse{Error: err.Error()}
		}
		return &liveDiffResponse{Error: "comparison failed"}
	}
	return &liveDiffResponse{Result: res}
}
