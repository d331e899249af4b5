// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
)

// writeServiceError maps service errors to status codes. notFound is the
// message used for models.ErrNotFound.
func writeServiceError(w http.ResponseWriter, l *zap.Logger, err error, notFound string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		middleware.ErrorResponse(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, "already voted")
	default:
		// already logged with context by the service
		l.Debug("request failed", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}
