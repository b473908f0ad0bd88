// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Option configures a store component.
type Option func(*settings)

type settings struct {
	now         func() time.Time
	readRetries int
	retryDelay  time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{
		now:         time.Now,
		readRetries: 0,
		retryDelay:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock overrides the clock used for timestamps and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReadRetries sets how many extra attempts idempotent reads get when
// the store is unavailable. Writes are never retried.
func WithReadRetries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.readRetries = n
		}
	}
}

// WithRetryDelay sets the base delay between read attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

func (s settings) clock() time.Time {
	return s.now().UTC()
}

// retryRead runs fn until it succeeds, fails with something other than
// ErrStoreUnavailable, or runs out of attempts.
func retryRead[T any](ctx context.Context, s settings, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= s.readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			}
		}

		result, err = fn()
		if err == nil || !errors.Is(err, ErrStoreUnavailable) {
			return result, err
		}
	}
	return result, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
