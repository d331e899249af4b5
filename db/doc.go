// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores polls, options and votes.

# Connecting

Open picks the driver for the dialect and retries the first ping until
the timeout elapses:

	conn, err := db.Open(ctx, db.DialectPostgres, url, 30*time.Second, logger)
	if err != nil {
		return err
	}
	if err := db.CreateSchema(ctx, conn, db.DialectPostgres); err != nil {
		return err
	}

Supported dialects are sqlite (modernc.org/sqlite), postgres (lib/pq) and
mysql (go-sql-driver/mysql). Queries are written with ? placeholders and
rebound for postgres.

# Tables

	poll 1──* poll_option
	poll 1──* vote
	poll_option 1──* vote

vote has UNIQUE (poll_id, origin_token), which is the only thing that
decides whether a vote is admitted. vote(option_id, poll_id) references
poll_option(id, poll_id), so a vote can only name an option of its own poll.

# Errors

Store methods return *models.ValidationError for malformed input,
models.ErrNotFound for unknown polls or options and
models.ErrDuplicateVote when the origin already voted. Anything else is a
wrapped driver error.
*/
package db
