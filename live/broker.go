// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"log/slog"
	"sync"
)

// Broker fans out "tally changed" notifications per poll. A notification
// carries no payload; subscribers recompute the tally from the store.
type Broker interface {
	// Publish notifies every subscriber of the poll.
	Publish(ctx context.Context, pollID string) error

	// Subscribe returns a channel that receives a value whenever the poll's
	// tally may have changed. The channel is closed when cancel is called or
	// ctx is done.
	Subscribe(ctx context.Context, pollID string) (notes <-chan struct{}, cancel func(), err error)

	Close() error
}

// MemoryBroker is an in-process Broker. Each subscriber has a one-slot
// buffer; a publish that finds it full is dropped since a notification is
// already pending.
type MemoryBroker struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan struct{}]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subscribers: make(map[string]map[chan struct{}]struct{}),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, pollID string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[pollID] {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- struct{}{}:
		default:
			slog.Debug("notification already pending", "poll_id", pollID)
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, pollID string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subscribers[pollID] == nil {
		b.subscribers[pollID] = make(map[chan struct{}]struct{})
	}
	b.subscribers[pollID][ch] = struct{}{}
	b.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			b.remove(pollID, ch)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}

// Subscribers returns the number of live subscriptions for a poll
func (b *MemoryBroker) Subscribers(pollID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[pollID])
}

// Close drops every subscription
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for pollID, subs := range b.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(b.subscribers, pollID)
	}
	return nil
}

func (b *MemoryBroker) remove(pollID string, target chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[pollID]
	if _, ok := subs[target]; !ok {
		return
	}
	delete(subs, target)
	close(target)
	if len(subs) == 0 {
		delete(b.subscribers, pollID)
	}
}
