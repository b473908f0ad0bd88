// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel carrying a poll's notifications
func Channel(pollID string) string {
	return "votehub:poll:" + pollID + ":votes"
}

// RedisBroker shares notifications between API processes over Redis
// pub/sub. Delivery is at-most-once, same as the in-process broker.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker connects to the Redis server at url
// (redis://[:password@]host:port/db) and verifies it with PING.
func NewRedisBroker(ctx context.Context, url string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Redis broker connected", "addr", opts.Addr, "db", opts.DB)
	return &RedisBroker{client: client}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, pollID string) error {
	if err := b.client.Publish(ctx, Channel(pollID), "vote").Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", Channel(pollID), err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, pollID string) (<-chan struct{}, func(), error) {
	ps := b.client.Subscribe(ctx, Channel(pollID))

	// Wait for the subscription confirmation so no publish is missed
	// between Subscribe returning and the first read.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", Channel(pollID), err)
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			ps.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
