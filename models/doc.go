// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain and error types for the API.

# Request Types

  - CreatePollRequest: question, options
  - CastVoteRequest: option_id

# Response Types

  - CreatePollResponse: poll_id
  - CastVoteResponse: ok, vote_id
  - MyVoteResponse: has_voted, option_id
  - Results: poll_id, question, total_votes, options (id, text, count, percentage)
  - ErrorResponse: error, message

# Domain Types

  - Poll: immutable question with creation time
  - Option: answer belonging to one poll, ordered by Position
  - Vote: append-only record of one origin's choice
  - VoteEvent: live notification pushed to subscribers

# Errors

	ErrDuplicateVote  // origin already voted on this poll
	ErrNotFound       // poll or option does not exist
	ErrInternal       // opaque storage or transport fault
	*ValidationError  // bad input shape, caller-fixable
*/
package models
