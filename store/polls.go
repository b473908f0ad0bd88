// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/votehub/models"
)

// MinOptions is the smallest number of options a poll may have.
const MinOptions = 2

// CreatePollInput carries everything needed to create a poll.
type CreatePollInput struct {
	Title       string
	Description string
	Options     []string
	ExpiresAt   *time.Time
	CreatorID   string
}

// PollStore owns poll records and their options.
type PollStore struct {
	db *sql.DB
	settings
}

// NewPollStore returns a PollStore backed by db.
func NewPollStore(db *sql.DB, opts ...Option) *PollStore {
	return &PollStore{db: db, settings: newSettings(opts)}
}

// CreatePoll validates the input and inserts the poll and its options in a
// single transaction. Polls are immutable once created.
func (s *PollStore) CreatePoll(ctx context.Context, in CreatePollInput) (models.PollWithOptions, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.PollWithOptions{}, validationError("title is required")
	}
	if strings.TrimSpace(in.CreatorID) == "" {
		return models.PollWithOptions{}, validationError("creator is required")
	}

	var texts []string
	for _, text := range in.Options {
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) < MinOptions {
		return models.PollWithOptions{}, validationError("at least 2 options are required")
	}

	now := s.clock()
	poll := models.Poll{
		ID:        uuid.NewString(),
		Title:     title,
		CreatorID: in.CreatorID,
		CreatedAt: now,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		poll.Description = &desc
	}
	if in.ExpiresAt != nil {
		expiresAt := in.ExpiresAt.UTC()
		poll.ExpiresAt = &expiresAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithOptions{}, unavailable("begin create poll", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, title, description, creator_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, poll.ID, poll.Title, nullString(poll.Description), poll.CreatorID, poll.CreatedAt, nullTime(poll.ExpiresAt))
	if err != nil {
		return models.PollWithOptions{}, unavailable("insert poll", err)
	}

	options := make([]models.Option, 0, len(texts))
	for i, text := range texts {
		opt := models.Option{
			ID:       uuid.NewString(),
			PollID:   poll.ID,
			Text:     text,
			Position: i,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (id, poll_id, option_text, position)
			VALUES ($1, $2, $3, $4)
		`, opt.ID, opt.PollID, opt.Text, opt.Position)
		if err != nil {
			return models.PollWithOptions{}, unavailable("insert option", err)
		}
		options = append(options, opt)
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithOptions{}, unavailable("commit create poll", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "creator_id", poll.CreatorID, "options", len(options))

	return models.PollWithOptions{Poll: poll, Options: options}, nil
}

// GetPoll returns the poll or ErrNotFound.
func (s *PollStore) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	return retryRead(ctx, s.settings, func() (models.Poll, error) {
		return getPoll(ctx, s.db, id)
	})
}

// GetPollWithOptions returns the poll and its options in creation order.
func (s *PollStore) GetPollWithOptions(ctx context.Context, id string) (models.PollWithOptions, error) {
	return retryRead(ctx, s.settings, func() (models.PollWithOptions, error) {
		poll, err := getPoll(ctx, s.db, id)
		if err != nil {
			return models.PollWithOptions{}, err
		}
		options, err := s.listOptions(ctx, id)
		if err != nil {
			return models.PollWithOptions{}, err
		}
		return models.PollWithOptions{Poll: poll, Options: options}, nil
	})
}

// ListPolls returns all polls, newest first.
func (s *PollStore) ListPolls(ctx context.Context) ([]models.Poll, error) {
	return retryRead(ctx, s.settings, func() ([]models.Poll, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, title, description, creator_id, created_at, expires_at
			FROM polls
			ORDER BY created_at DESC, id DESC
		`)
		if err != nil {
			return nil, unavailable("list polls", err)
		}
		defer rows.Close()

		polls := []models.Poll{}
		for rows.Next() {
			var p models.Poll
			if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatorID, &p.CreatedAt, &p.ExpiresAt); err != nil {
				return nil, unavailable("scan poll", err)
			}
			polls = append(polls, p)
		}
		if err := rows.Err(); err != nil {
			return nil, unavailable("list polls", err)
		}
		return polls, nil
	})
}

// IsExpired reports whether the poll is expired as of the store's clock.
func (s *PollStore) IsExpired(poll models.Poll) bool {
	return poll.IsExpired(s.clock())
}

// Now returns the store's current time.
func (s *PollStore) Now() time.Time {
	return s.clock()
}

func (s *PollStore) listOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text, position
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, unavailable("list options", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position); err != nil {
			return nil, unavailable("scan option", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list options", err)
	}
	return options, nil
}

func getPoll(ctx context.Context, q queryRower, id string) (models.Poll, error) {
	var p models.Poll
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, creator_id, created_at, expires_at
		FROM polls
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.CreatorID, &p.CreatedAt, &p.ExpiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, notFoundError("poll " + id)
	}
	if err != nil {
		return models.Poll{}, unavailable("get poll", err)
	}
	return p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
