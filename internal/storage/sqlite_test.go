package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "handybox-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := NewSQLiteStore(tmpFile.Name(), 2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func insertLogs(t *testing.T, store *SQLiteStore, logs []*RequestLog) {
	t.Helper()
	if err := store.InsertRequestLogBatch(context.Background(), logs); err != nil {
		t.Fatal(err)
	}
}

func TestRequestLogInsertAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	insertLogs(t, store, []*RequestLog{
		{Method: "POST", Path: "/api/v1/tools/diff", StatusCode: 200, LatencyMs: 12,
			ClientIP: "1.2.3.4", Tool: "diff", RouteGroup: "tools", CreatedAt: now},
		{Method: "POST", Path: "/api/v1/tools/hash", StatusCode: 200, LatencyMs: 3,
			ClientIP: "1.2.3.4", Tool: "hash", RouteGroup: "tools", CreatedAt: now},
		{Method: "GET", Path: "/api/v1/tools", StatusCode: 200, LatencyMs: 1,
			ClientIP: "5.6.7.8", RouteGroup: "api", CreatedAt: now},
	})

	result, err := store.ListRequestLogs(ctx, RequestLogFilter{}, Pagination{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 3 {
		t.Fatalf("expected 3 logs, got %d", result.Total)
	}

	logs, ok := result.Data.([]*RequestLog)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(logs))
	}
}

func TestRequestLogFilters(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	insertLogs(t, store, []*RequestLog{
		{Method: "POST", Path: "/api/v1/tools/diff", StatusCode: 200, Tool: "diff", RouteGroup: "tools", CreatedAt: now},
		{Method: "POST", Path: "/api/v1/tools/diff", StatusCode: 400, Tool: "diff", RouteGroup: "tools", CreatedAt: now},
		{Method: "POST", Path: "/api/v1/tools/hash", StatusCode: 200, Tool: "hash", RouteGroup: "tools", CreatedAt: now},
	})

	result, err := store.ListRequestLogs(ctx, RequestLogFilter{Tool: "diff"}, Pagination{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 diff logs, got %d", result.Total)
	}

	result, err = store.ListRequestLogs(ctx, RequestLogFilter{StatusCode: 400}, Pagination{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 log with status 400, got %d", result.Total)
	}
}

func TestRequestLogStats(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	insertLogs(t, store, []*RequestLog{
		{Method: "POST", Path: "/api/v1/tools/diff", StatusCode: 200, LatencyMs: 10,
			ClientIP: "1.2.3.4", Tool: "diff", RouteGroup: "tools", CreatedAt: now},
		{Method: "POST", Path: "/api/v1/tools/diff", StatusCode: 200, LatencyMs: 30,
			ClientIP: "5.6.7.8", Tool: "diff", RouteGroup: "tools", CreatedAt: now},
		{Method: "GET", Path: "/api/v1/health", StatusCode: 200, LatencyMs: 2,
			ClientIP: "1.2.3.4", RouteGroup: "api", CreatedAt: now},
	})

	stats, err := store.GetRequestLogStats(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRequests != 3 {
		t.Fatalf("expected 3 requests, got %d", stats.TotalRequests)
	}
	if stats.UniqueVisitors != 2 {
		t.Fatalf("expected 2 unique visitors, got %d", stats.UniqueVisitors)
	}
	if stats.AvgLatencyMs != 14 {
		t.Fatalf("expected avg latency 14, got %d", stats.AvgLatencyMs)
	}
	if len(stats.TopTools) != 1 || stats.TopTools[0].Path != "diff" || stats.TopTools[0].Count != 2 {
		t.Fatalf("unexpected top tools: %+v", stats.TopTools)
	}
}

func TestPurgeOldData(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	insertLogs(t, store, []*RequestLog{
		{Method: "GET", Path: "/old", CreatedAt: now.AddDate(0, 0, -30)},
		{Method: "GET", Path: "/recent", CreatedAt: now},
	})

	deleted, err := store.PurgeOldData(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	result, err := store.ListRequestLogs(ctx, RequestLogFilter{}, Pagination{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 remaining log, got %d", result.Total)
	}
}
