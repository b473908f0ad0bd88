// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the VoteHub API.

# Handler Types

Each handler is a struct wrapping the store components it needs:

  - PollHandler: create, list, and view polls
  - VotingHandler: cast a vote, look up the caller's vote
  - ResultsHandler: tallies, as JSON or as a live event stream

Handlers are created via constructor functions that accept *sql.DB and Config,
plus the live broker where votes or streams are involved:

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, broker)

# Voter Identity

Every route runs behind middleware.WithVoter. Handlers read the voter ID
from the request context and pass it explicitly to the store; a request
without one gets 401.

# Polls

	POST /polls        → CreatePoll (caller becomes creator)
	GET  /polls        → ListPolls (newest first, status computed now)
	GET  /polls/{id}   → GetPoll (options, has_voted, can_vote)

Polls are immutable once created. Status is active until expires_at passes.

# Voting

	POST /polls/{id}/votes   → CastVote
	GET  /polls/{id}/my-vote → MyVote

One vote per voter per poll. The store's unique index decides; a repeat
vote gets 409, a vote on an expired poll gets 410.

# Results

	GET /polls/{id}/results → GetResults
	GET /polls/{id}/events  → StreamResults (text/event-stream)

Results are recomputed from the vote ledger on every request and on every
broker notification. Nothing is cached.

# Errors

Store errors map to status codes in one place:

	ErrValidation       → 400
	ErrNotFound         → 404
	ErrAlreadyVoted     → 409
	ErrExpiredPoll      → 410
	ErrStoreUnavailable → 503
	anything else       → 500
*/
package handlers
