// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status values. Status is derived from ExpiresAt, never stored.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Request types

type CreatePollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type CreatePollResponse struct {
	PollID  string   `json:"poll_id"`
	Options []Option `json:"options"`
}

type CastVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type MyVoteResponse struct {
	HasVoted bool   `json:"has_voted"`
	CanVote  bool   `json:"can_vote"`
	OptionID string `json:"option_id,omitempty"`
}

type ListPollsResponse struct {
	Polls []PollSummary `json:"polls"`
}

// Domain types

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	CreatorID   string     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the poll has an expiry earlier than now.
// Polls without an expiry are always active.
func (p Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Status returns StatusActive or StatusExpired as of now.
func (p Poll) Status(now time.Time) string {
	if p.IsExpired(now) {
		return StatusExpired
	}
	return StatusActive
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Text     string `json:"option_text"`
	Position int    `json:"position"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
}

type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	VoterID   string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

// Read models

type PollSummary struct {
	Poll
	Status     string `json:"status"`
	CreatedAgo string `json:"created_ago"`
	ExpiresIn  string `json:"expires_in,omitempty"`
}

type PollView struct {
	PollSummary
	Options  []Option `json:"options"`
	HasVoted bool     `json:"has_voted"`
	CanVote  bool     `json:"can_vote"`
}

// Tally types

// TallyRow is one option's vote count, computed on demand.
type TallyRow struct {
	OptionID   string `json:"option_id"`
	OptionText string `json:"option_text"`
	VoteCount  int    `json:"vote_count"`
}

type ResultRow struct {
	TallyRow
	Percentage int `json:"percentage"`
}

type Results struct {
	PollID     string      `json:"poll_id"`
	Status     string      `json:"status"`
	TotalVotes int         `json:"total_votes"`
	Rows       []ResultRow `json:"rows"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
