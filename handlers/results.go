// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/service"
)

type ResultsHandler struct {
	svc *service.PollService
	l   *zap.Logger
}

func NewResultsHandler(svc *service.PollService, l *zap.Logger) *ResultsHandler {
	return &ResultsHandler{svc: svc, l: l}
}

// GetResults handles GET /polls/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.l, err, "poll not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
