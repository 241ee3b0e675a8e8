// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/danielhkuo/quickly-vote/models"
)

// tally is one candidate's row before grouping by position
type tally struct {
	PositionID   int64
	PositionName string
	Candidate    models.CandidateResult
}

// ComputeResults counts committed votes per candidate. Positions are ordered
// by id; candidates by votes descending, then by id ascending.
// Positions without candidates are omitted.
func ComputeResults(ctx context.Context, db *sql.DB) ([]models.PositionResult, error) {
	tallies, err := getTallies(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to get vote tallies: %w", err)
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]

		// 1. Ballot order of positions
		if a.PositionID != b.PositionID {
			return a.PositionID < b.PositionID
		}

		// 2. More votes first
		if a.Candidate.Votes != b.Candidate.Votes {
			return a.Candidate.Votes > b.Candidate.Votes
		}

		// 3. Lower candidate id wins ties
		return a.Candidate.ID < b.Candidate.ID
	})

	positions := []models.PositionResult{}
	for _, t := range tallies {
		if len(positions) == 0 || positions[len(positions)-1].ID != t.PositionID {
			positions = append(positions, models.PositionResult{
				ID:         t.PositionID,
				Name:       t.PositionName,
				Candidates: []models.CandidateResult{},
			})
		}
		last := &positions[len(positions)-1]
		last.Candidates = append(last.Candidates, t.Candidate)
	}

	return positions, nil
}

// getTallies returns one row per candidate with its vote count
func getTallies(ctx context.Context, db *sql.DB) ([]tally, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.name, c.id, c.full_name, c.alias, COUNT(v.id)
		FROM positions p
		JOIN candidates c ON c.position_id = p.id
		LEFT JOIN votes v ON v.candidate_id = c.id
		GROUP BY p.id, p.name, c.id, c.full_name, c.alias
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []tally
	for rows.Next() {
		var t tally
		if err := rows.Scan(&t.PositionID, &t.PositionName,
			&t.Candidate.ID, &t.Candidate.FullName, &t.Candidate.Alias, &t.Candidate.Votes); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

// ComputeTurnout reports how many registered voters have completed voting
func ComputeTurnout(ctx context.Context, db *sql.DB) (models.Turnout, error) {
	var t models.Turnout
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN voted THEN 1 ELSE 0 END), 0)
		FROM voters
	`).Scan(&t.TotalVoters, &t.Voted)
	if err != nil {
		return models.Turnout{}, fmt.Errorf("failed to count voters: %w", err)
	}

	t.Percentage = Percentage(t.Voted, t.TotalVoters)
	return t, nil
}

// Percentage returns voted/total as a percentage rounded to two decimals,
// or 0 when there are no voters
func Percentage(voted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(voted)/float64(total)*10000) / 100
}
