package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"costlens/internal/model"
	svcstore "costlens/internal/service/store"
)

// RecordImport 新增或更新导入日志
func (s *Store) RecordImport(ctx context.Context, l model.ImportLog) error {
	warnings := l.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	raw, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	var completed sql.NullTime
	if !l.CompletedAt.IsZero() {
		completed = sql.NullTime{Time: l.CompletedAt, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO import_logs (
			id, filename, total_rows, imported_rows, dropped_rows,
			warnings, status, error_message, started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			total_rows = excluded.total_rows,
			imported_rows = excluded.imported_rows,
			dropped_rows = excluded.dropped_rows,
			warnings = excluded.warnings,
			status = excluded.status,
			error_message = excluded.error_message,
			completed_at = excluded.completed_at
	`, l.ID, l.Filename, l.TotalRows, l.ImportedRows, l.DroppedRows,
		string(raw), string(l.Status), l.ErrorMessage, l.StartedAt, completed)
	if err != nil {
		return fmt.Errorf("failed to save import log: %w", err)
	}
	return nil
}

// LastImport 最近一次导入日志
func (s *Store) LastImport(ctx context.Context) (model.ImportLog, error) {
	logs, err := s.ListImports(ctx, 1)
	if err != nil {
		return model.ImportLog{}, err
	}
	if len(logs) == 0 {
		return model.ImportLog{}, svcstore.ErrNotFound
	}
	return logs[0], nil
}

// ListImports 按开始时间倒序列出导入日志
func (s *Store) ListImports(ctx context.Context, limit int) ([]model.ImportLog, error) {
	query := `
		SELECT id, filename, total_rows, imported_rows, dropped_rows,
			warnings, status, error_message, started_at, completed_at
		FROM import_logs
		ORDER BY started_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	result := make([]model.ImportLog, 0)
	for rows.Next() {
		var (
			l         model.ImportLog
			warnings  string
			status    string
			completed sql.NullTime
		)
		if err := rows.Scan(
			&l.ID, &l.Filename, &l.TotalRows, &l.ImportedRows, &l.DroppedRows,
			&warnings, &status, &l.ErrorMessage, &l.StartedAt, &completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		l.Status = model.ImportStatus(status)
		if completed.Valid {
			l.CompletedAt = completed.Time
		}
		if err := json.Unmarshal([]byte(warnings), &l.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to iterate import logs: %w", err)
	}
	return result, nil
}
