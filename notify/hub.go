// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
)

// Publisher announces admitted votes. It is called only after the vote
// is committed.
type Publisher interface {
	Publish(ctx context.Context, v models.Vote) error
}

// Subscription receives the vote events of one poll. Events is never
// closed; Done is closed when the subscription ends, either through Close
// or because the hub dropped a subscriber that fell behind.
type Subscription struct {
	pollID string
	events chan models.VoteEvent
	done   chan struct{}
	once   sync.Once
	hub    *Hub
}

func (s *Subscription) PollID() string {
	return s.pollID
}

func (s *Subscription) Events() <-chan models.VoteEvent {
	return s.events
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s, false)
}

// Hub fans vote events out to the subscribers of each poll. Every
// subscriber has its own bounded queue; a subscriber whose queue is full
// is dropped instead of blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	buffer int
	m      *metrics.Metrics
	l      *zap.Logger
}

func NewHub(buffer int, m *metrics.Metrics, l *zap.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		m:      m,
		l:      l,
	}
}

// Subscribe registers a subscriber for pollID. Only events published
// after Subscribe returns are delivered.
func (h *Hub) Subscribe(pollID string) *Subscription {
	sub := &Subscription{
		pollID: pollID,
		events: make(chan models.VoteEvent, h.buffer),
		done:   make(chan struct{}),
		hub:    h,
	}

	h.mu.Lock()
	subs, ok := h.topics[pollID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[pollID] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	h.m.SubscriberAdded()
	h.l.Debug("subscriber added", zap.String("poll_id", pollID))
	return sub
}

// Publish delivers v to the local subscribers of its poll
func (h *Hub) Publish(_ context.Context, v models.Vote) error {
	h.broadcast(models.NewVoteEvent(v))
	return nil
}

func (h *Hub) broadcast(ev models.VoteEvent) {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.topics[ev.PollID]))
	for sub := range h.topics[ev.PollID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.events <- ev:
		default:
			h.l.Warn("subscriber queue full, dropping subscriber",
				zap.String("poll_id", ev.PollID),
				zap.Int("buffer", h.buffer))
			h.remove(sub, true)
		}
	}
}

func (h *Hub) remove(sub *Subscription, dropped bool) {
	h.mu.Lock()
	subs, ok := h.topics[sub.pollID]
	_, found := subs[sub]
	if ok && found {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, sub.pollID)
		}
	}
	h.mu.Unlock()

	if !found {
		return
	}
	sub.once.Do(func() { close(sub.done) })
	h.m.SubscriberRemoved(dropped)
}

// Subscribers returns the number of live subscribers for pollID
func (h *Hub) Subscribers(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[pollID])
}

// CloseAll ends every subscription, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	var subs []*Subscription
	for _, topic := range h.topics {
		for sub := range topic {
			subs = append(subs, sub)
		}
	}
	h.topics = make(map[string]map[*Subscription]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.done) })
		h.m.SubscriberRemoved(false)
	}
	if len(subs) > 0 {
		h.l.Info("closed all subscriptions", zap.Int("count", len(subs)))
	}
}
