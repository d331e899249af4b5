// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var stmts []string
	switch dialect {
	case DialectSQLite:
		stmts = sqliteSchema
	case DialectPostgres:
		stmts = postgresSchema
	case DialectMySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("db: unsupported dialect %q", dialect)
	}

	// One statement per Exec, mysql rejects multi-statement strings by default
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// The constraints are the same for every dialect:
//   - UNIQUE (poll_id, origin_token) on vote admits one vote per origin
//   - vote(option_id, poll_id) -> poll_option(id, poll_id) keeps the option
//     inside the voted poll

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    UNIQUE (id, poll_id),
    UNIQUE (poll_id, position)
)`,
	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    option_id TEXT NOT NULL,
    origin_token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, origin_token),
    FOREIGN KEY (option_id, poll_id) REFERENCES poll_option(id, poll_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    UNIQUE (id, poll_id),
    UNIQUE (poll_id, position)
)`,
	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    option_id TEXT NOT NULL,
    origin_token TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (poll_id, origin_token),
    FOREIGN KEY (option_id, poll_id) REFERENCES poll_option(id, poll_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS poll (
    id CHAR(36) PRIMARY KEY,
    question TEXT NOT NULL,
    created_at DATETIME(6) NOT NULL
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS poll_option (
    id CHAR(36) PRIMARY KEY,
    poll_id CHAR(36) NOT NULL,
    position INT NOT NULL,
    label TEXT NOT NULL,
    UNIQUE KEY uq_option_poll (id, poll_id),
    UNIQUE KEY uq_option_position (poll_id, position),
    CONSTRAINT fk_option_poll FOREIGN KEY (poll_id) REFERENCES poll(id)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS vote (
    id CHAR(36) PRIMARY KEY,
    poll_id CHAR(36) NOT NULL,
    option_id CHAR(36) NOT NULL,
    origin_token VARCHAR(128) NOT NULL,
    created_at DATETIME(6) NOT NULL,
    UNIQUE KEY uq_vote_origin (poll_id, origin_token),
    KEY idx_vote_option_id (option_id),
    CONSTRAINT fk_vote_poll FOREIGN KEY (poll_id) REFERENCES poll(id),
    CONSTRAINT fk_vote_option FOREIGN KEY (option_id, poll_id) REFERENCES poll_option(id, poll_id)
) ENGINE=InnoDB`,
}
