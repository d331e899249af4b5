// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/models"
)

// Store implements the poll store, the vote ledger and the tally engine
// on top of one database handle.
type Store struct {
	db      *sql.DB
	dialect Dialect
	polls   *lru.Cache[string, models.PollWithOptions]
	l       *zap.Logger
}

func NewStore(db *sql.DB, dialect Dialect, cacheSize int, l *zap.Logger) (*Store, error) {
	cache, err := lru.New[string, models.PollWithOptions](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("db: failed to create poll cache: %w", err)
	}
	return &Store{db: db, dialect: dialect, polls: cache, l: l}, nil
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

// polls are immutable, but callers must not share the option slice
func clonePoll(p models.PollWithOptions) models.PollWithOptions {
	p.Options = slices.Clone(p.Options)
	return p
}
