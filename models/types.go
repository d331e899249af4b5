package models

import "time"

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type CastVoteResponse struct {
	OK     bool   `json:"ok"`
	VoteID string `json:"vote_id"`
}

type MyVoteResponse struct {
	HasVoted bool   `json:"has_voted"`
	OptionID string `json:"option_id,omitempty"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Text     string `json:"text"`
	Position int    `json:"-"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
}

type Vote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	OptionID    string    `json:"option_id"`
	OriginToken string    `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
}

// VoteEvent is what live subscribers of a poll receive for every admitted vote.
type VoteEvent struct {
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	VoteID    string    `json:"vote_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewVoteEvent(v Vote) VoteEvent {
	return VoteEvent{
		PollID:    v.PollID,
		OptionID:  v.OptionID,
		VoteID:    v.ID,
		Timestamp: v.CreatedAt,
	}
}

// Tally types

type OptionTally struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

type OptionResult struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type Results struct {
	PollID     string         `json:"poll_id"`
	Question   string         `json:"question"`
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
