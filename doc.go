// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll hosts single-choice polls. Anyone can create one, every network
origin may vote once per poll, and viewers watch results change live over
a websocket.

# Starting the Server

	DATABASE_URL=file:livepoll.db ORIGIN_SALT=change-me go run .

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..." --origin-salt change-me

Create the schema without serving:

	go run . migrate

# Configuration

Settings come from a .env file, the environment or a YAML file given with
--config, and flags override them.

Required settings:

  - DATABASE_URL (-d): database DSN
  - ORIGIN_SALT (--origin-salt): secret for origin token HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or mysql (default: sqlite)
  - LOG_LEVEL (--log-level): debug, info, warn or error (default: info)
  - TRUST_PROXY: honour X-Forwarded-For and X-Real-IP (default: true)
  - NOTIFY_RELAY (--notify-relay): share vote events between instances
    through postgres LISTEN/NOTIFY (default: false)
  - SUBSCRIBER_BUFFER, POLL_CACHE_SIZE, CORS_ORIGIN, DB_CONNECT_TIMEOUT

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, stream)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, client IP
  - service: orchestration of storage and notification
  - db: schema, poll store, vote ledger and tally
  - notify: per-poll fan-out hub and postgres relay
  - metrics: Prometheus collectors
  - models: domain, request and response types, errors
  - auth: ids and origin tokens
  - cliparse: configuration parsing
  - logger: zap construction

See package documentation for each component.
*/
package main
