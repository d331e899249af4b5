// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse loads server configuration.

Sources, lowest priority first:

 1. defaults from the env-default struct tags
 2. a .env file in the working directory, if present (godotenv)
 3. environment variables, or a YAML file given with --config (cleanenv)
 4. command-line flags explicitly set by the user

Required settings:

  - DATABASE_URL (-d): driver DSN
  - ORIGIN_SALT (--origin-salt): secret for origin token HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or mysql (default: sqlite)
  - TRUST_PROXY: honour X-Forwarded-For / X-Real-IP (default: true)
  - LOG_LEVEL: debug, info, warn or error (default: info)
  - CORS_ORIGIN: allowed browser origin (default: *)
  - SUBSCRIBER_BUFFER: queued events per live subscriber (default: 32)
  - POLL_CACHE_SIZE: polls kept in the read cache (default: 1024)
  - NOTIFY_RELAY: fan out events across instances via Postgres NOTIFY
  - DB_CONNECT_TIMEOUT: how long startup waits for the database (default: 30s)
*/
package cliparse
