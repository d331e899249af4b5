// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/service"
)

type VotingHandler struct {
	svc *service.PollService
	cfg cliparse.Config
	l   *zap.Logger
}

func NewVotingHandler(svc *service.PollService, cfg cliparse.Config, l *zap.Logger) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg, l: l}
}

func (h *VotingHandler) originToken(r *http.Request) string {
	return auth.OriginToken(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.OriginSalt)
}

// CastVote handles POST /polls/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	vote, err := h.svc.CastVote(r.Context(), r.PathValue("id"), req.OptionID, h.originToken(r))
	if err != nil {
		writeServiceError(w, h.l, err, "poll or option not found")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		OK:     true,
		VoteID: vote.ID,
	})
}

// GetMyVote handles GET /polls/{id}/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	vote, ok, err := h.svc.HasVoted(r.Context(), r.PathValue("id"), h.originToken(r))
	if err != nil {
		writeServiceError(w, h.l, err, "poll not found")
		return
	}

	resp := models.MyVoteResponse{HasVoted: ok}
	if ok {
		resp.OptionID = vote.OptionID
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
