// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/models"
)

// ListBallot returns every position with its candidates, ordered by position
// id then candidate id. Vote totals are never included.
func (s *Store) ListBallot(ctx context.Context) ([]models.BallotPosition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, c.id, c.alias
		FROM positions p
		LEFT JOIN candidates c ON c.position_id = p.id
		ORDER BY p.id, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	}
	defer rows.Close()

	positions := []models.BallotPosition{}
	for rows.Next() {
		var (
			posID       int64
			name        string
			description sql.NullString
			candID      sql.NullInt64
			alias       sql.NullString
		)
		if err := rows.Scan(&posID, &name, &description, &candID, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan ballot row: %w", err)
		}

		if len(positions) == 0 || positions[len(positions)-1].ID != posID {
			pos := models.BallotPosition{ID: posID, Name: name, Candidates: []models.BallotCandidate{}}
			if description.Valid {
				d := description.String
				pos.Description = &d
			}
			positions = append(positions, pos)
		}

		if candID.Valid {
			last := &positions[len(positions)-1]
			last.Candidates = append(last.Candidates, models.BallotCandidate{ID: candID.Int64, Alias: alias.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballot rows: %w", err)
	}

	return positions, nil
}

// PositionIDs returns the ids of every position; together they define the
// coverage required of a ballot
func (s *Store) PositionIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM positions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	return ids, nil
}

// CandidatePosition returns the position a candidate belongs to
func (s *Store) CandidatePosition(ctx context.Context, q Querier, candidateID int64) (int64, error) {
	var positionID int64
	err := q.QueryRowContext(ctx, `
		SELECT position_id FROM candidates WHERE id = $1
	`, candidateID).Scan(&positionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query candidate: %w", err)
	}
	return positionID, nil
}

// InsertVote records one choice. Only valid inside the submission transaction.
func (s *Store) InsertVote(ctx context.Context, tx *sql.Tx, voterID, positionID, candidateID int64) (string, error) {
	voteID := uuid.NewString()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO votes (id, voter_id, position_id, candidate_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, voterID, positionID, candidateID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert vote: %w", err)
	}
	return voteID, nil
}
