// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/votehub/models"
)

// TallyEngine derives per-option counts from the poll_results view.
// Nothing is cached; every call reads the ledger again.
type TallyEngine struct {
	db *sql.DB
	settings
}

// NewTallyEngine returns a TallyEngine reading the poll_results view.
func NewTallyEngine(db *sql.DB, opts ...Option) *TallyEngine {
	return &TallyEngine{db: db, settings: newSettings(opts)}
}

// ComputeTally returns one row per option of the poll in creation order.
// Options without votes are included with a count of 0.
func (e *TallyEngine) ComputeTally(ctx context.Context, pollID string) ([]models.TallyRow, error) {
	return retryRead(ctx, e.settings, func() ([]models.TallyRow, error) {
		if _, err := getPoll(ctx, e.db, pollID); err != nil {
			return nil, err
		}
		return e.tally(ctx, pollID)
	})
}

// Results returns the tally with percentages, the total, and the poll's
// current status.
func (e *TallyEngine) Results(ctx context.Context, pollID string) (models.Results, error) {
	return retryRead(ctx, e.settings, func() (models.Results, error) {
		poll, err := getPoll(ctx, e.db, pollID)
		if err != nil {
			return models.Results{}, err
		}
		rows, err := e.tally(ctx, pollID)
		if err != nil {
			return models.Results{}, err
		}

		results := Summarize(pollID, rows)
		results.Status = poll.Status(e.clock())
		return results, nil
	})
}

func (e *TallyEngine) tally(ctx context.Context, pollID string) ([]models.TallyRow, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT option_id, option_text, vote_count
		FROM poll_results
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, unavailable("query tally", err)
	}
	defer rows.Close()

	tally := []models.TallyRow{}
	for rows.Next() {
		var row models.TallyRow
		if err := rows.Scan(&row.OptionID, &row.OptionText, &row.VoteCount); err != nil {
			return nil, unavailable("scan tally", err)
		}
		tally = append(tally, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("query tally", err)
	}
	return tally, nil
}

// Summarize attaches percentages and the total to a tally.
func Summarize(pollID string, tally []models.TallyRow) models.Results {
	total := TotalVotes(tally)

	rows := make([]models.ResultRow, 0, len(tally))
	for _, row := range tally {
		rows = append(rows, models.ResultRow{
			TallyRow:   row,
			Percentage: Percentage(row, total),
		})
	}

	return models.Results{
		PollID:     pollID,
		TotalVotes: total,
		Rows:       rows,
	}
}

// TotalVotes sums the counts of a tally.
func TotalVotes(tally []models.TallyRow) int {
	total := 0
	for _, row := range tally {
		total += row.VoteCount
	}
	return total
}

// Percentage returns round(100 * count / total) rounding halves up, or 0
// when there are no votes. Integer arithmetic keeps it exact.
func Percentage(row models.TallyRow, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*row.VoteCount + total) / (2 * total)
}
