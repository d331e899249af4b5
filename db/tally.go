// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"math"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

// Tally counts votes per option in one query, so the counts come from a
// single snapshot. Options without votes are included.
func (s *Store) Tally(ctx context.Context, pollID string) (map[string]models.OptionTally, error) {
	id, err := auth.NormalizeID(pollID)
	if err != nil {
		return nil, models.NewValidationError("poll_id", "malformed id")
	}

	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT o.id, COUNT(v.id)
		FROM poll_option o
		LEFT JOIN vote v ON v.option_id = o.id AND v.poll_id = o.poll_id
		WHERE o.poll_id = ?
		GROUP BY o.id
	`), id)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query tally: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var optionID string
		var count int
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("db: failed to scan tally: %w", err)
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: failed to read tally: %w", err)
	}

	// every poll has at least two options
	if len(counts) == 0 {
		return nil, models.ErrNotFound
	}

	return ComputePercentages(counts), nil
}

// ComputePercentages rounds every share independently, so the percentages
// may not add up to exactly 100.
func ComputePercentages(counts map[string]int) map[string]models.OptionTally {
	total := 0
	for _, c := range counts {
		total += c
	}

	out := make(map[string]models.OptionTally, len(counts))
	for id, c := range counts {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(c) * 100 / float64(total)))
		}
		out[id] = models.OptionTally{Count: c, Percentage: pct}
	}
	return out
}
