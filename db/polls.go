// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

const minOptions = 2

// NormalizePoll trims the question and options and drops blank options.
func NormalizePoll(question string, options []string) (string, []string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", nil, models.NewValidationError("question", "is required")
	}

	texts := make([]string, 0, len(options))
	for _, opt := range options {
		if t := strings.TrimSpace(opt); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) < minOptions {
		return "", nil, models.NewValidationError("options", "at least 2 non-empty options are required")
	}

	return q, texts, nil
}

// CreatePoll writes the poll and its options in one transaction
func (s *Store) CreatePoll(ctx context.Context, question string, options []string) (models.PollWithOptions, error) {
	q, texts, err := NormalizePoll(question, options)
	if err != nil {
		return models.PollWithOptions{}, err
	}

	poll := models.Poll{
		ID:       auth.NewID(),
		Question: q,
		// drivers keep microseconds at most
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	opts := make([]models.Option, len(texts))
	for i, text := range texts {
		opts[i] = models.Option{ID: auth.NewID(), PollID: poll.ID, Text: text, Position: i}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("db: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO poll (id, question, created_at)
		VALUES (?, ?, ?)
	`), poll.ID, poll.Question, poll.CreatedAt)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("db: failed to insert poll: %w", err)
	}

	for _, opt := range opts {
		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO poll_option (id, poll_id, position, label)
			VALUES (?, ?, ?, ?)
		`), opt.ID, opt.PollID, opt.Position, opt.Text)
		if err != nil {
			return models.PollWithOptions{}, fmt.Errorf("db: failed to insert option %d: %w", opt.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("db: failed to commit poll: %w", err)
	}

	result := models.PollWithOptions{Poll: poll, Options: opts}
	s.polls.Add(poll.ID, clonePoll(result))

	s.l.Debug("poll stored", zap.String("poll_id", poll.ID), zap.Int("options", len(opts)))

	return result, nil
}

// GetPoll returns the poll with its options in display order
func (s *Store) GetPoll(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	id, err := auth.NormalizeID(pollID)
	if err != nil {
		return models.PollWithOptions{}, models.NewValidationError("poll_id", "malformed id")
	}

	if cached, ok := s.polls.Get(id); ok {
		return clonePoll(cached), nil
	}

	var poll models.Poll
	err = s.db.QueryRowContext(ctx, s.q(`
		SELECT id, question, created_at FROM poll WHERE id = ?
	`), id).Scan(&poll.ID, &poll.Question, &poll.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PollWithOptions{}, models.ErrNotFound
	}
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("db: failed to query poll: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, poll_id, position, label
		FROM poll_option
		WHERE poll_id = ?
		ORDER BY position
	`), id)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("db: failed to query options: %w", err)
	}
	defer rows.Close()

	var opts []models.Option
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Position, &opt.Text); err != nil {
			return models.PollWithOptions{}, fmt.Errorf("db: failed to scan option: %w", err)
		}
		opts = append(opts, opt)
	}
	if err := rows.Err(); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("db: failed to read options: %w", err)
	}

	result := models.PollWithOptions{Poll: poll, Options: opts}
	s.polls.Add(id, clonePoll(result))
	return result, nil
}
