// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/notify"
)

// publishTimeout bounds the notification of one admitted vote
const publishTimeout = 5 * time.Second

// Store is the persistence the service builds on, implemented by *db.Store
type Store interface {
	CreatePoll(ctx context.Context, question string, options []string) (models.PollWithOptions, error)
	GetPoll(ctx context.Context, pollID string) (models.PollWithOptions, error)
	CastVote(ctx context.Context, pollID, optionID, originToken string) (models.Vote, error)
	HasVoted(ctx context.Context, pollID, originToken string) (models.Vote, bool, error)
	Tally(ctx context.Context, pollID string) (map[string]models.OptionTally, error)
}

type PollService struct {
	store Store
	pub   notify.Publisher
	hub   *notify.Hub
	m     *metrics.Metrics
	l     *zap.Logger
}

// New wires the service. pub announces admitted votes, it is either the
// hub itself or a relay feeding it.
func New(store Store, pub notify.Publisher, hub *notify.Hub, m *metrics.Metrics, l *zap.Logger) *PollService {
	return &PollService{
		store: store,
		pub:   pub,
		hub:   hub,
		m:     m,
		l:     l,
	}
}

func (s *PollService) CreatePoll(ctx context.Context, question string, options []string) (models.PollWithOptions, error) {
	s.l.Debug("creating poll", zap.String("question", question), zap.Strings("options", options))

	poll, err := s.store.CreatePoll(ctx, question, options)
	if err != nil {
		return models.PollWithOptions{}, s.fail("create poll", err)
	}

	s.m.PollCreated()
	s.l.Info("poll created", zap.String("poll_id", poll.Poll.ID), zap.Int("options", len(poll.Options)))
	return poll, nil
}

func (s *PollService) GetPoll(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return models.PollWithOptions{}, s.fail("get poll", err, zap.String("poll_id", pollID))
	}
	return poll, nil
}

// CastVote admits the vote and then publishes it. A failed publish is
// logged and counted; the vote stays admitted.
func (s *PollService) CastVote(ctx context.Context, pollID, optionID, originToken string) (models.Vote, error) {
	vote, err := s.store.CastVote(ctx, pollID, optionID, originToken)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateVote):
			s.m.Vote(metrics.OutcomeDuplicate)
			s.l.Info("duplicate vote rejected", zap.String("poll_id", pollID))
			return models.Vote{}, err
		case errors.Is(err, models.ErrNotFound):
			s.m.Vote(metrics.OutcomeNotFound)
			return models.Vote{}, err
		case models.IsValidation(err):
			s.m.Vote(metrics.OutcomeInvalid)
			return models.Vote{}, err
		default:
			s.m.Vote(metrics.OutcomeError)
			return models.Vote{}, s.fail("cast vote", err, zap.String("poll_id", pollID), zap.String("option_id", optionID))
		}
	}
	s.m.Vote(metrics.OutcomeAdmitted)

	// The client may hang up right after the insert; the event still goes out
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.pub.Publish(pubCtx, vote); err != nil {
		s.m.PublishFailed()
		s.l.Error("failed to publish vote",
			zap.String("poll_id", vote.PollID),
			zap.String("vote_id", vote.ID),
			zap.Error(err))
	}

	s.l.Info("vote admitted", zap.String("poll_id", vote.PollID), zap.String("vote_id", vote.ID))
	return vote, nil
}

// HasVoted reports the vote originToken cast on the poll, if any
func (s *PollService) HasVoted(ctx context.Context, pollID, originToken string) (models.Vote, bool, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Vote{}, false, err
	}

	vote, ok, err := s.store.HasVoted(ctx, poll.Poll.ID, originToken)
	if err != nil {
		return models.Vote{}, false, s.fail("look up vote", err, zap.String("poll_id", pollID))
	}
	return vote, ok, nil
}

// Results combines the tally with the poll's option order
func (s *PollService) Results(ctx context.Context, pollID string) (models.Results, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Results{}, err
	}

	tally, err := s.store.Tally(ctx, poll.Poll.ID)
	if err != nil {
		return models.Results{}, s.fail("tally poll", err, zap.String("poll_id", pollID))
	}

	res := models.Results{
		PollID:   poll.Poll.ID,
		Question: poll.Poll.Question,
		Options:  make([]models.OptionResult, 0, len(poll.Options)),
	}
	for _, opt := range poll.Options {
		t := tally[opt.ID]
		res.TotalVotes += t.Count
		res.Options = append(res.Options, models.OptionResult{
			ID:         opt.ID,
			Text:       opt.Text,
			Count:      t.Count,
			Percentage: t.Percentage,
		})
	}
	return res, nil
}

// Subscribe opens a live subscription on an existing poll. The caller
// must Close it.
func (s *PollService) Subscribe(ctx context.Context, pollID string) (*notify.Subscription, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(poll.Poll.ID), nil
}

// fail passes expected outcomes through and hides everything else behind
// models.ErrInternal.
func (s *PollService) fail(op string, err error, fields ...zap.Field) error {
	switch {
	case models.IsValidation(err),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrDuplicateVote),
		errors.Is(err, models.ErrInternal):
		return err
	default:
		s.l.Error("failed to "+op, append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: failed to %s", models.ErrInternal, op)
	}
}
