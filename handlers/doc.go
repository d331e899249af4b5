// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

Each handler is a struct over the poll service:

  - PollHandler: create and fetch polls
  - VotingHandler: cast votes, look up the caller's vote
  - ResultsHandler: tallied results
  - StreamHandler: live vote events over a websocket

# Voting

Voters are identified by an origin token derived from the client address
and ORIGIN_SALT. A second vote from the same origin on the same poll gets
409 with message "already voted".

	POST /polls/{id}/votes {"option_id": "..."} → 201 {"ok": true, "vote_id": "..."}

# Errors

Every error body is {"error": <status text>, "message": <detail>}.
Unexpected failures return 500 with message "internal error" and never
include storage details.

# Streaming

GET /polls/{id}/stream upgrades to a websocket and sends one JSON frame
per admitted vote:

	{"poll_id": "...", "option_id": "...", "vote_id": "...", "timestamp": "..."}

The server pings every 54s. A client that falls too far behind is closed
with code 1001 (going away) and should reconnect and fetch results again.
*/
package handlers
