package storage

import "time"

// RequestLog records a single HTTP request to the handybox server.
type RequestLog struct {
	ID         int64     `json:"id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	LatencyMs  int64     `json:"latency_ms"`
	ClientIP   string    `json:"client_ip"`
	UserAgent  string    `json:"user_agent"`
	Referer    string    `json:"referer"`
	Tool       string    `json:"tool,omitempty"`
	RouteGroup string    `json:"route_group"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestLogStats holds aggregate request statistics.
type RequestLogStats struct {
	TotalRequests  int64       `json:"total_requests"`
	UniqueVisitors int64       `json:"unique_visitors"`
	AvgLatencyMs   int64       `json:"avg_latency_ms"`
	TopPaths       []PathCount `json:"top_paths"`
	TopTools       []PathCount `json:"top_tools"`
}

// PathCount pairs a path or tool name with its request count.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// RequestLogFilter holds filter parameters for listing request logs.
type RequestLogFilter struct {
	Method     string
	Path       string
	StatusCode int
	RouteGroup string
	Tool       string
	From       time.Time
	To         time.Time
}
