// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the voting core: polls, the vote ledger, and tallies.

# Components

  - PollStore: creates, reads, and lists polls with their options
  - VoteLedger: records votes and answers whether a voter has voted
  - TallyEngine: counts votes per option and computes percentages

Each component wraps a *sql.DB and is safe for concurrent use:

	polls := store.NewPollStore(conn, store.WithReadRetries(2))
	ledger := store.NewVoteLedger(conn)
	tally := store.NewTallyEngine(conn)

# One Vote Per Voter

CastVote inserts directly and lets UNIQUE (poll_id, user_id) reject the
second vote. Concurrent attempts by the same voter resolve to one success
and ErrAlreadyVoted for everyone else.

# Errors

All failures wrap one of the sentinel errors:

	ErrValidation       // empty title, fewer than 2 options, missing voter
	ErrNotFound         // unknown poll or option
	ErrAlreadyVoted     // unique index rejected the vote
	ErrExpiredPoll      // vote after expires_at
	ErrStoreUnavailable // any other driver failure

Match them with errors.Is. Reads retry on ErrStoreUnavailable up to the
configured count; CastVote and CreatePoll never retry.

# Percentages

	store.Percentage(row, total) // round half up, 0 when total is 0

For N options with votes the percentages sum to 100 ± (N-1).
*/
package store
