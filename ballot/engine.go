// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

var (
	ErrMalformedBallot    = errors.New("malformed ballot")
	ErrIncompleteCoverage = errors.New("ballot must cover every position exactly once")
	ErrDuplicatePosition  = errors.New("duplicate vote for position")
	ErrMissingPosition    = errors.New("missing vote for position")
	ErrUnknownPosition    = errors.New("unknown position")
	ErrVoterNotFound      = errors.New("voter not found")
	ErrAlreadyVoted       = errors.New("you have already voted")
	ErrCandidateMismatch  = errors.New("candidate does not belong to position")
	ErrTransientConflict  = errors.New("another submission is in progress, please retry")
)

// IsRejection reports whether err is a ballot the voter must fix (or cannot
// resubmit), as opposed to an infrastructure failure
func IsRejection(err error) bool {
	return errors.Is(err, ErrMalformedBallot) ||
		errors.Is(err, ErrIncompleteCoverage) ||
		errors.Is(err, ErrVoterNotFound) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrCandidateMismatch)
}

// Choice is one validated entry of a ballot
type Choice struct {
	PositionID  int64
	CandidateID int64
}

// Engine commits a voter's complete ballot exactly once
type Engine struct {
	store *store.Store
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Submit validates votes and commits them for voterID in one transaction:
// every vote row, the voted flag and the audit entry, or nothing.
func (e *Engine) Submit(ctx context.Context, voterID int64, votes []models.VoteChoice) error {
	choices, err := parseChoices(votes)
	if err != nil {
		return err
	}

	positionIDs, err := e.store.PositionIDs(ctx)
	if err != nil {
		return err
	}
	if err := checkCoverage(choices, positionIDs); err != nil {
		return err
	}

	if err := e.commit(ctx, voterID, choices); err != nil {
		if store.IsTransient(err) {
			return fmt.Errorf("%w: %w", ErrTransientConflict, err)
		}
		return err
	}
	return nil
}

func (e *Engine) commit(ctx context.Context, voterID int64, choices []Choice) error {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Holds the voter lock until commit; concurrent submissions for the same
	// voter wait here and then see voted = true
	voter, err := e.store.LockVoter(ctx, tx, voterID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrVoterNotFound
	}
	if err != nil {
		return err
	}
	if voter.Voted {
		return ErrAlreadyVoted
	}

	for _, c := range choices {
		positionID, err := e.store.CandidatePosition(ctx, tx, c.CandidateID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && positionID != c.PositionID) {
			return fmt.Errorf("%w: candidate %d, position %d", ErrCandidateMismatch, c.CandidateID, c.PositionID)
		}
		if err != nil {
			return err
		}
	}

	for _, c := range choices {
		if _, err := e.store.InsertVote(ctx, tx, voterID, c.PositionID, c.CandidateID); err != nil {
			if store.IsUniqueViolation(err) {
				return ErrAlreadyVoted
			}
			return err
		}
	}

	if err := e.store.MarkVoted(ctx, tx, voterID); err != nil {
		return err
	}

	details := fmt.Sprintf("Voter %d submitted a ballot with %d votes", voterID, len(choices))
	if err := e.store.AppendAudit(ctx, tx, auth.VoterActor(voterID), models.ActionSubmitBallot, details); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ballot: %w", err)
	}
	return nil
}

// parseChoices rejects empty ballots and entries missing either id
func parseChoices(votes []models.VoteChoice) ([]Choice, error) {
	if len(votes) == 0 {
		return nil, fmt.Errorf("%w: no votes submitted", ErrMalformedBallot)
	}

	choices := make([]Choice, 0, len(votes))
	for i, v := range votes {
		if v.PositionID == nil || v.CandidateID == nil {
			return nil, fmt.Errorf("%w: entry %d needs positionId and candidateId", ErrMalformedBallot, i+1)
		}
		choices = append(choices, Choice{PositionID: *v.PositionID, CandidateID: *v.CandidateID})
	}
	return choices, nil
}

// checkCoverage requires the ballot's positions to be exactly positionIDs.
// Input order decides which duplicate or unknown id is reported; missing ids
// are reported in ascending order.
func checkCoverage(choices []Choice, positionIDs []int64) error {
	known := make(map[int64]bool, len(positionIDs))
	for _, id := range positionIDs {
		known[id] = true
	}

	seen := make(map[int64]bool, len(choices))
	for _, c := range choices {
		if !known[c.PositionID] {
			return fmt.Errorf("%w: %w %d", ErrIncompleteCoverage, ErrUnknownPosition, c.PositionID)
		}
		if seen[c.PositionID] {
			return fmt.Errorf("%w: %w %d", ErrIncompleteCoverage, ErrDuplicatePosition, c.PositionID)
		}
		seen[c.PositionID] = true
	}

	for _, id := range positionIDs {
		if !seen[id] {
			return fmt.Errorf("%w: %w %d", ErrIncompleteCoverage, ErrMissingPosition, id)
		}
	}
	return nil
}
