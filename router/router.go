// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/handlers"
	"github.com/danielhkuo/votehub/live"
	"github.com/danielhkuo/votehub/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, broker live.Broker) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, broker)
	resultsHandler := handlers.NewResultsHandler(db, cfg, broker)

	// voter wraps a route with logging and session authentication
	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithVoter(cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	mux.HandleFunc("GET /polls", voter(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", voter(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", voter(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", voter(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", voter(votingHandler.MyVote))

	// Results
	mux.HandleFunc("GET /polls/{id}/results", voter(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/events", voter(resultsHandler.StreamResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("votehub API v1"))
	})

	return mux
}
