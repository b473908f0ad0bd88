// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/votehub/db"
	"github.com/danielhkuo/votehub/models"
)

// VoteLedger owns the append-only set of votes. The one-vote-per-voter
// invariant is the UNIQUE (poll_id, user_id) index on the votes table.
type VoteLedger struct {
	db *sql.DB
	settings
}

// NewVoteLedger returns a VoteLedger backed by db.
func NewVoteLedger(db *sql.DB, opts ...Option) *VoteLedger {
	return &VoteLedger{db: db, settings: newSettings(opts)}
}

// HasVoted reports whether voterID already has a vote in the poll.
func (l *VoteLedger) HasVoted(ctx context.Context, pollID, voterID string) (bool, error) {
	return retryRead(ctx, l.settings, func() (bool, error) {
		var exists bool
		err := l.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM votes
				WHERE poll_id = $1 AND user_id = $2
			)
		`, pollID, voterID).Scan(&exists)
		if err != nil {
			return false, unavailable("check vote", err)
		}
		return exists, nil
	})
}

// GetVote returns the voter's vote in the poll or ErrNotFound.
func (l *VoteLedger) GetVote(ctx context.Context, pollID, voterID string) (models.Vote, error) {
	return retryRead(ctx, l.settings, func() (models.Vote, error) {
		var v models.Vote
		err := l.db.QueryRowContext(ctx, `
			SELECT id, poll_id, option_id, user_id, created_at
			FROM votes
			WHERE poll_id = $1 AND user_id = $2
		`, pollID, voterID).Scan(&v.ID, &v.PollID, &v.OptionID, &v.VoterID, &v.CreatedAt)

		if errors.Is(err, sql.ErrNoRows) {
			return models.Vote{}, notFoundError("vote")
		}
		if err != nil {
			return models.Vote{}, unavailable("get vote", err)
		}
		return v, nil
	})
}

// CastVote records voterID's choice of optionID in the poll.
//
// Expiry is checked before anything else, so an expired poll rejects the
// vote whether or not the voter has voted before. Duplicate votes are
// rejected by the unique index on insert; there is no prior lookup.
func (l *VoteLedger) CastVote(ctx context.Context, pollID, optionID, voterID string) (models.Vote, error) {
	if strings.TrimSpace(voterID) == "" {
		return models.Vote{}, validationError("voter is required")
	}
	if strings.TrimSpace(optionID) == "" {
		return models.Vote{}, validationError("option_id is required")
	}

	poll, err := getPoll(ctx, l.db, pollID)
	if err != nil {
		return models.Vote{}, err
	}

	now := l.clock()
	if poll.IsExpired(now) {
		return models.Vote{}, ErrExpiredPoll
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		PollID:    pollID,
		OptionID:  optionID,
		VoterID:   voterID,
		CreatedAt: now,
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO votes (id, poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.PollID, vote.OptionID, vote.VoterID, vote.CreatedAt)

	switch {
	case err == nil:
	case db.IsUniqueViolation(err):
		return models.Vote{}, ErrAlreadyVoted
	case db.IsForeignKeyViolation(err):
		return models.Vote{}, notFoundError("option " + optionID)
	default:
		return models.Vote{}, unavailable("insert vote", err)
	}

	slog.Info("vote cast", "poll_id", pollID, "vote_id", vote.ID)

	return vote, nil
}
