// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers.

# Routes

	GET  /health               liveness, plain "OK"
	GET  /metrics              Prometheus metrics
	POST /polls                create a poll
	GET  /polls/{id}           poll with options
	POST /polls/{id}/votes     cast a vote
	GET  /polls/{id}/my-vote   whether the caller's origin already voted
	GET  /polls/{id}/results   counts and percentages
	GET  /polls/{id}/stream    websocket of vote events

Poll routes are wrapped with middleware.WithLogging.
*/
package router
