// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the VoteHub API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, broker)

# Endpoints

Health (public):

	GET /health

Polls (requires Authorization: Bearer <token>):

	GET  /polls      - List polls, newest first
	POST /polls      - Create poll
	GET  /polls/{id} - Poll, options, and the caller's vote state

Voting:

	POST /polls/{id}/votes   - Cast the caller's vote
	GET  /polls/{id}/my-vote - Whether and how the caller voted

Results:

	GET /polls/{id}/results - Current tally with percentages
	GET /polls/{id}/events  - Live tally as Server-Sent Events

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, broker)
	resultsHandler := handlers.NewResultsHandler(db, cfg, broker)

Every route except /health and / is wrapped in middleware.WithLogging and
middleware.WithVoter.
*/
package router
