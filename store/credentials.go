// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-vote/models"
)

// VoterByAccessCode looks up a voter by access code
func (s *Store) VoterByAccessCode(ctx context.Context, code string) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, access_code, voted FROM voters WHERE access_code = $1
	`, code).Scan(&v.ID, &v.Name, &v.AccessCode, &v.Voted)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// VoterByID looks up a voter by id
func (s *Store) VoterByID(ctx context.Context, id int64) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, access_code, voted FROM voters WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.AccessCode, &v.Voted)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// LockVoter re-reads a voter inside tx and holds its row lock until the
// transaction ends
func (s *Store) LockVoter(ctx context.Context, tx *sql.Tx, id int64) (models.Voter, error) {
	var v models.Voter
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, access_code, voted FROM voters WHERE id = $1`+s.lockClause(),
		id).Scan(&v.ID, &v.Name, &v.AccessCode, &v.Voted)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to lock voter: %w", err)
	}
	return v, nil
}

// MarkVoted flips the voter's voted flag. Only valid inside the submission transaction.
func (s *Store) MarkVoted(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE voters SET voted = TRUE WHERE id = $1 AND voted = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark voter as voted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark voter as voted: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("failed to mark voter as voted: %d rows updated", n)
	}
	return nil
}

// AdminByUsername looks up admin credentials
func (s *Store) AdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	var a models.Admin
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash FROM admins WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to query admin: %w", err)
	}
	return a, nil
}
