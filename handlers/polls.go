// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/middleware"
	"github.com/danielhkuo/votehub/models"
	"github.com/danielhkuo/votehub/store"
)

type PollHandler struct {
	polls  *store.PollStore
	ledger *store.VoteLedger
	cfg    cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	opts := storeOptions(cfg)
	return &PollHandler{
		polls:  store.NewPollStore(db, opts...),
		ledger: store.NewVoteLedger(db, opts...),
		cfg:    cfg,
	}
}

// CreatePoll handles POST /polls
// The authenticated voter becomes the poll's creator.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := requireVoter(w, r)
	if !ok {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	created, err := h.polls.CreatePoll(r.Context(), store.CreatePollInput{
		Title:       req.Title,
		Description: req.Description,
		Options:     req.Options,
		ExpiresAt:   req.ExpiresAt,
		CreatorID:   creatorID,
	})
	if err != nil {
		writeStoreError(w, r, err, "create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:  created.Poll.ID,
		Options: created.Options,
	})
}

// ListPolls handles GET /polls
// Newest first, with status computed at request time.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.ListPolls(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "list polls")
		return
	}

	now := h.polls.Now()
	summaries := make([]models.PollSummary, 0, len(polls))
	for _, p := range polls {
		summaries = append(summaries, summarize(p, now))
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{Polls: summaries})
}

// GetPoll handles GET /polls/{id}
// Returns the poll, its options, and whether the caller may still vote.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireVoter(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.polls.GetPollWithOptions(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, r, err, "get poll")
		return
	}

	hasVoted, err := h.ledger.HasVoted(r.Context(), pollID, voterID)
	if err != nil {
		writeStoreError(w, r, err, "get poll")
		return
	}

	summary := summarize(poll.Poll, h.polls.Now())
	middleware.JSONResponse(w, http.StatusOK, models.PollView{
		PollSummary: summary,
		Options:     poll.Options,
		HasVoted:    hasVoted,
		CanVote:     !hasVoted && summary.Status == models.StatusActive,
	})
}

// summarize adds the computed status and human-readable times
func summarize(p models.Poll, now time.Time) models.PollSummary {
	s := models.PollSummary{
		Poll:       p,
		Status:     p.Status(now),
		CreatedAgo: humanize.RelTime(p.CreatedAt, now, "ago", "from now"),
	}
	if p.ExpiresAt != nil {
		if p.IsExpired(now) {
			s.ExpiresIn = "expired " + humanize.RelTime(*p.ExpiresAt, now, "ago", "from now")
		} else {
			s.ExpiresIn = humanize.RelTime(*p.ExpiresAt, now, "ago", "from now")
		}
	}
	return s
}
