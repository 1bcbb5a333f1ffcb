// Package api implements the JSON HTTP handlers.
package api

import (
	"log/slog"
	"time"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/storage"
	"github.com/handybox/handybox/internal/tool"
)

type Handler struct {
	cfg       *config.Config
	store     storage.Store
	registry  *tool.Registry
	logger    *slog.Logger
	startTime time.Time
}

func New(cfg *config.Config, store storage.Store, registry *tool.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		registry:  registry,
		logger:    logger,
		startTime: time.Now(),
	}
}
