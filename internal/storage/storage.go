package storage

import (
	"context"
	"time"
)

// Store defines the complete storage interface. Tool results are never
// persisted; the request log is the only durable data this service keeps.
type Store interface {
	InsertRequestLogBatch(ctx context.Context, logs []*RequestLog) error
	ListRequestLogs(ctx context.Context, f RequestLogFilter, p Pagination) (*PaginatedResult, error)
	GetRequestLogStats(ctx context.Context, from, to time.Time) (*RequestLogStats, error)
	PurgeOldData(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Pagination holds page parameters for list queries.
type Pagination struct {
	Page    int
	PerPage int
}

// PaginatedResult wraps a page of data with totals.
type PaginatedResult struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}
