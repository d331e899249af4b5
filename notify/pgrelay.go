// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/models"
)

// RelayChannel is the postgres NOTIFY channel carrying vote events
const RelayChannel = "livepoll_votes"

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

// PGRelay shares vote events between instances through postgres
// LISTEN/NOTIFY. Publish sends a notification and every instance, this one
// included, hands the events it hears to its local Hub.
type PGRelay struct {
	db       *sql.DB
	listener *pq.Listener
	hub      *Hub
	l        *zap.Logger
}

func NewPGRelay(db *sql.DB, connStr string, hub *Hub, l *zap.Logger) (*PGRelay, error) {
	r := &PGRelay{db: db, hub: hub, l: l}

	r.listener = pq.NewListener(connStr, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			l.Info("relay listener connected")
		case pq.ListenerEventDisconnected:
			l.Warn("relay listener disconnected", zap.Error(err))
		case pq.ListenerEventReconnected:
			l.Info("relay listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			l.Warn("relay listener connection attempt failed", zap.Error(err))
		}
	})

	if err := r.listener.Listen(RelayChannel); err != nil {
		r.listener.Close()
		return nil, fmt.Errorf("notify: failed to listen on %s: %w", RelayChannel, err)
	}

	return r, nil
}

// Publish sends the vote event to every listening instance
func (r *PGRelay) Publish(ctx context.Context, v models.Vote) error {
	payload, err := json.Marshal(models.NewVoteEvent(v))
	if err != nil {
		return fmt.Errorf("notify: failed to encode event: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, RelayChannel, string(payload)); err != nil {
		return fmt.Errorf("notify: pg_notify failed: %w", err)
	}
	return nil
}

// Run forwards notifications to the hub until ctx is cancelled or the
// listener is closed.
func (r *PGRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-r.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect, anything sent meanwhile is gone
			if n == nil {
				r.l.Warn("relay connection re-established, events may have been missed")
				continue
			}
			r.handle(n.Extra)
		case <-ticker.C:
			go func() {
				if err := r.listener.Ping(); err != nil {
					r.l.Warn("relay ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (r *PGRelay) handle(payload string) {
	var ev models.VoteEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		r.l.Warn("dropping malformed relay payload", zap.Error(err))
		return
	}
	if ev.PollID == "" {
		r.l.Warn("dropping relay payload without poll_id")
		return
	}
	r.hub.broadcast(ev)
}

func (r *PGRelay) Close() error {
	return r.listener.Close()
}
