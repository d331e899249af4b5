// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Open connects to the database and waits until it answers a ping or
// timeout elapses.
func Open(ctx context.Context, dialect Dialect, url string, timeout time.Duration, l *zap.Logger) (*sql.DB, error) {
	driver, dsn, err := dialect.dsn(url)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: failed to open %s: %w", dialect, err)
	}

	// SQLite allows a single writer; queue on one connection instead of
	// failing with SQLITE_BUSY.
	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(backoff.NewExponentialBackOff())}
	if timeout > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(timeout))
	} else {
		opts = append(opts, backoff.WithMaxTries(1))
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		if err := conn.PingContext(ctx); err != nil {
			l.Warn("database ping failed", zap.String("dialect", string(dialect)), zap.Error(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, opts...)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: database not reachable: %w", err)
	}

	return conn, nil
}

// dsn returns the database/sql driver name and a DSN with the options the
// store relies on.
func (d Dialect) dsn(url string) (string, string, error) {
	switch d {
	case DialectSQLite:
		return "sqlite", sqliteDSN(url), nil
	case DialectPostgres:
		return "postgres", url, nil
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(url)
		if err != nil {
			return "", "", fmt.Errorf("db: invalid mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		return "mysql", cfg.FormatDSN(), nil
	}
	return "", "", fmt.Errorf("db: unsupported dialect %q", d)
}

// sqliteDSN turns on foreign keys (off by default in SQLite) and a busy timeout.
func sqliteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	if !strings.Contains(url, "foreign_keys") {
		url += sep + "_pragma=foreign_keys(1)"
		sep = "&"
	}
	if !strings.Contains(url, "busy_timeout") {
		url += sep + "_pragma=busy_timeout(5000)"
	}
	return url
}

// Rebind rewrites ? placeholders to $N for postgres
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
