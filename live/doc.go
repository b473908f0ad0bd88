// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live delivers "tally changed" notifications for polls.

# Brokers

The vote handler publishes after every successful vote:

	_ = broker.Publish(ctx, pollID)

Event streams subscribe per poll and recompute results from the store on
each notification:

	notes, cancel, err := broker.Subscribe(ctx, pollID)
	defer cancel()
	for range notes {
		// re-read the tally
	}

Two implementations exist:

  - MemoryBroker: in-process, the default
  - RedisBroker: Redis pub/sub on channel votehub:poll:<id>:votes, for
    several API processes behind one load balancer

Notifications carry no payload and are coalesced: a subscriber that has not
consumed the previous notification does not receive another. Nothing is
cached here; the store stays the only source of tallies.
*/
package live
