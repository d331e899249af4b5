// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package service orchestrates the poll store, the vote ledger, the tally
// and the live notifier.
//
// Errors returned by PollService are one of *models.ValidationError,
// models.ErrNotFound, models.ErrDuplicateVote, or an error wrapping
// models.ErrInternal that carries no driver detail.
package service
