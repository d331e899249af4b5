// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

// CastVote admits a vote with a single INSERT. The UNIQUE (poll_id,
// origin_token) constraint decides between concurrent attempts and the
// composite foreign key rejects options of other polls.
func (s *Store) CastVote(ctx context.Context, pollID, optionID, originToken string) (models.Vote, error) {
	pid, err := auth.NormalizeID(pollID)
	if err != nil {
		return models.Vote{}, models.NewValidationError("poll_id", "malformed id")
	}
	oid, err := auth.NormalizeID(optionID)
	if err != nil {
		return models.Vote{}, models.NewValidationError("option_id", "malformed id")
	}
	if originToken == "" {
		return models.Vote{}, models.NewValidationError("origin", "is required")
	}

	vote := models.Vote{
		ID:          auth.NewID(),
		PollID:      pid,
		OptionID:    oid,
		OriginToken: originToken,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO vote (id, poll_id, option_id, origin_token, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), vote.ID, vote.PollID, vote.OptionID, vote.OriginToken, vote.CreatedAt)
	if err != nil {
		switch classify(err) {
		case constraintUnique:
			return models.Vote{}, models.ErrDuplicateVote
		case constraintForeignKey:
			return models.Vote{}, models.ErrNotFound
		}
		return models.Vote{}, fmt.Errorf("db: failed to insert vote: %w", err)
	}

	return vote, nil
}

// HasVoted looks up the vote recorded for originToken on the poll
func (s *Store) HasVoted(ctx context.Context, pollID, originToken string) (models.Vote, bool, error) {
	pid, err := auth.NormalizeID(pollID)
	if err != nil {
		return models.Vote{}, false, models.NewValidationError("poll_id", "malformed id")
	}

	vote := models.Vote{PollID: pid, OriginToken: originToken}
	err = s.db.QueryRowContext(ctx, s.q(`
		SELECT id, option_id, created_at FROM vote
		WHERE poll_id = ? AND origin_token = ?
	`), pid, originToken).Scan(&vote.ID, &vote.OptionID, &vote.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("db: failed to query vote: %w", err)
	}

	return vote, true, nil
}
