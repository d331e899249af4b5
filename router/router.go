// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/service"
)

func NewRouter(svc *service.PollService, m *metrics.Metrics, cfg cliparse.Config, l *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc, l)
	votingHandler := handlers.NewVotingHandler(svc, cfg, l)
	resultsHandler := handlers.NewResultsHandler(svc, l)
	streamHandler := handlers.NewStreamHandler(svc, cfg.CORSOrigin, l)

	logged := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(l, m, h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Polls
	mux.HandleFunc("POST /polls", logged(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", logged(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", logged(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", logged(votingHandler.GetMyVote))

	// Results, polled or live
	mux.HandleFunc("GET /polls/{id}/results", logged(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/stream", logged(streamHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
