package storage

import (
	"context"
	"fmt"
	"math"
	"time"
)

func (s *SQLiteStore) InsertRequestLogBatch(ctx context.Context, logs []*RequestLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("request log batch begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO request_logs (method, path, status_code, latency_ms, client_ip, user_agent, referer, tool, route_group, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("request log batch prepare: %w", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		_, err := stmt.ExecContext(ctx,
			l.Method, l.Path, l.StatusCode, l.LatencyMs,
			l.ClientIP, l.UserAgent, l.Referer,
			l.Tool, l.RouteGroup, formatTime(l.CreatedAt))
		if err != nil {
			return fmt.Errorf("request log batch insert: %w", err)
		}
	}

	return tx.Commit()
}

func buildRequestLogWhere(f RequestLogFilter) (string, []any) {
	where := "1=1"
	var args []any

	if f.Method != "" {
		where += " AND method=?"
		args = append(args, f.Method)
	}
	if f.Path != "" {
		where += " AND path LIKE ?"
		args = append(args, "%"+f.Path+"%")
	}
	if f.StatusCode > 0 {
		where += " AND status_code=?"
		args = append(args, f.StatusCode)
	}
	if f.RouteGroup != "" {
		where += " AND route_group=?"
		args = append(args, f.RouteGroup)
	}
	if f.Tool != "" {
		where += " AND tool=?"
		args = append(args, f.Tool)
	}
	if !f.From.IsZero() {
		where += " AND created_at >= ?"
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		where += " AND created_at < ?"
		args = append(args, formatTime(f.To))
	}
	return where, args
}

func (s *SQLiteStore) ListRequestLogs(ctx context.Context, f RequestLogFilter, p Pagination) (*PaginatedResult, error) {
	where, args := buildRequestLogWhere(f)

	var total int64
	countArgs := make([]any, len(args))
	copy(countArgs, args)
	err := s.readDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM request_logs WHERE "+where, countArgs...).Scan(&total)
	if err != nil {
		return nil, err
	}

	offset := (p.Page - 1) * p.PerPage
	args = append(args, p.PerPage, offset)
	rows, err := s.readDB.QueryContext(ctx,
		`SELECT id, method, path, status_code, latency_ms, client_ip, user_agent, referer, tool, route_group, created_at
		 FROM request_logs WHERE `+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		var l RequestLog
		var createdAt string
		err := rows.Scan(&l.ID, &l.Method, &l.Path, &l.StatusCode, &l.LatencyMs,
			&l.ClientIP, &l.UserAgent, &l.Referer, &l.Tool, &l.RouteGroup, &createdAt)
		if err != nil {
			return nil, err
		}
		l.CreatedAt = parseTime(createdAt)
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*RequestLog{}
	}

	return &PaginatedResult{
		Data:       logs,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: int(math.Ceil(float64(total) / float64(p.PerPage))),
	}, nil
}

func (s *SQLiteStore) GetRequestLogStats(ctx context.Context, from, to time.Time) (*RequestLogStats, error) {
	fromStr := formatTime(from)
	toStr := formatTime(to)

	var stats RequestLogStats
	err := s.readDB.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT client_ip), CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)
		 FROM request_logs WHERE created_at >= ? AND created_at < ?`,
		fromStr, toStr).Scan(&stats.TotalRequests, &stats.UniqueVisitors, &stats.AvgLatencyMs)
	if err != nil {
		return nil, err
	}

	topPaths, err := s.readDB.QueryContext(ctx,
		`SELECT path, COUNT(*) as cnt FROM request_logs
		 WHERE created_at >= ? AND created_at < ?
		 GROUP BY path ORDER BY cnt DESC LIMIT 10`, fromStr, toStr)
	if err != nil {
		return nil, err
	}
	defer topPaths.Close()

	for topPaths.Next() {
		var pc PathCount
		if err := topPaths.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, err
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	if err := topPaths.Err(); err != nil {
		return nil, err
	}
	if stats.TopPaths == nil {
		stats.TopPaths = []PathCount{}
	}

	topTools, err := s.readDB.QueryContext(ctx,
		`SELECT tool, COUNT(*) as cnt FROM request_logs
		 WHERE created_at >= ? AND created_at < ? AND tool != ''
		 GROUP BY tool ORDER BY cnt DESC LIMIT 10`, fromStr, toStr)
	if err != nil {
		return nil, err
	}
	defer topTools.Close()

	for topTools.Next() {
		var pc PathCount
		if err := topTools.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, err
		}
		stats.TopTools = append(stats.TopTools, pc)
	}
	if err := topTools.Err(); err != nil {
		return nil, err
	}
	if stats.TopTools == nil {
		stats.TopTools = []PathCount{}
	}

	return &stats, nil
}

func (s *SQLiteStore) PurgeOldData(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.writeDB.ExecContext(ctx,
		"DELETE FROM request_logs WHERE created_at < ?", formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("purge request logs: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}
