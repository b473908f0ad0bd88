// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, description, options, expires_at
  - CastVoteRequest: option_id

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, options
  - CastVoteResponse: vote_id, message
  - MyVoteResponse: has_voted, can_vote, option_id
  - ListPollsResponse: polls
  - ErrorResponse: error, message

# Domain Types

  - Poll: poll metadata; status is computed, never stored
  - Option: a choice within a poll, ordered by position
  - Vote: one voter's immutable choice (voter id never serialized)
  - TallyRow: per-option vote count derived from the poll_results view

# Read Models

  - PollSummary: Poll plus status and humanized time labels
  - PollView: PollSummary plus options and the caller's voting state
  - Results: tally rows with percentages and the total vote count

# Constants

Status values:

	StatusActive  = "active"
	StatusExpired = "expired"

A poll is expired iff its expires_at is set and earlier than the current time:

	poll.IsExpired(time.Now())
	poll.Status(time.Now())
*/
package models
