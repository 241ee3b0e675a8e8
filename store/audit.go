// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/models"
)

// DefaultAuditLimit caps ListAudit when no positive limit is given
const DefaultAuditLimit = 500

// AppendAudit writes one audit entry through q, which may be the pool or a
// transaction the entry must commit with
func (s *Store) AppendAudit(ctx context.Context, q Querier, actor, action, details string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), actor, action, details, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the most recent entries, newest first
func (s *Store) ListAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 || limit > DefaultAuditLimit {
		limit = DefaultAuditLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.AuditLogEntry{}
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit logs: %w", err)
	}
	return logs, nil
}
