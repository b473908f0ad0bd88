// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and driver
error classification.

# Connections

Open selects the driver by database type and pings the server:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:votehub.db")

SQLite connections always enable foreign keys and a busy timeout, and are
limited to a single open connection.

# Schema Creation

CreateSchema initializes all required tables for the chosen dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - polls: poll metadata and optional expiry
  - poll_options: options per poll, ordered by position
  - votes: one row per voter per poll
  - poll_results (view): vote_count per option, zero-vote options included

# Relationships

	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes (composite key: poll_id, option_id)

The composite foreign key guarantees a vote's option belongs to the same
poll as the vote.

# Constraints

UNIQUE (poll_id, user_id) on votes is the one-vote-per-voter invariant.
Callers insert directly and classify the failure:

	if db.IsUniqueViolation(err) { ... }
	if db.IsForeignKeyViolation(err) { ... }

Both helpers understand lib/pq SQLSTATE codes and modernc SQLite extended
result codes.
*/
package db
