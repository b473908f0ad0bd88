// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/votehub/auth"
	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/live"
	"github.com/danielhkuo/votehub/middleware"
	"github.com/danielhkuo/votehub/models"
	"github.com/danielhkuo/votehub/store"
)

// publishTimeout bounds how long a vote response waits on the broker
const publishTimeout = 2 * time.Second

type VotingHandler struct {
	polls  *store.PollStore
	ledger *store.VoteLedger
	broker live.Broker
	cfg    cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, broker live.Broker) *VotingHandler {
	opts := storeOptions(cfg)
	return &VotingHandler{
		polls:  store.NewPollStore(db, opts...),
		ledger: store.NewVoteLedger(db, opts...),
		broker: broker,
		cfg:    cfg,
	}
}

// CastVote handles POST /polls/{id}/votes
// One vote per voter per poll; a second attempt gets 409.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireVoter(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote, err := h.ledger.CastVote(r.Context(), pollID, req.OptionID, voterID)
	if err != nil {
		writeStoreError(w, r, err, "cast vote")
		return
	}

	// Live updates are best effort; the vote is already stored
	if h.broker != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
		if err := h.broker.Publish(ctx, pollID); err != nil {
			slog.Warn("failed to publish vote notification", "poll_id", pollID, "error", err)
		}
		cancel()
	}

	slog.Info("vote accepted",
		"poll_id", pollID,
		"vote_id", vote.ID,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.JWTSecret),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  vote.ID,
		Message: "Vote recorded",
	})
}

// MyVote handles GET /polls/{id}/my-vote
// Tells the caller whether they voted, for which option, and whether they
// still can.
func (h *VotingHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireVoter(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.polls.GetPoll(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, r, err, "get vote")
		return
	}

	var resp models.MyVoteResponse
	vote, err := h.ledger.GetVote(r.Context(), pollID, voterID)
	switch {
	case err == nil:
		resp.HasVoted = true
		resp.OptionID = vote.OptionID
	case errors.Is(err, store.ErrNotFound):
		resp.CanVote = !h.polls.IsExpired(poll)
	default:
		writeStoreError(w, r, err, "get vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
