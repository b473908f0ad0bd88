// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables and the poll_results view for the given
// database type. Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	schema := sqliteSchema
	if dbType == TypePostgres {
		schema = postgresSchema
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT,
    creator_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC);

-- Options
CREATE TABLE IF NOT EXISTS poll_options (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    position INTEGER NOT NULL,
    UNIQUE (poll_id, id),
    UNIQUE (poll_id, position)
);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (poll_id, user_id),
    FOREIGN KEY (poll_id, option_id) REFERENCES poll_options(poll_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id);

-- Results
CREATE OR REPLACE VIEW poll_results AS
SELECT o.poll_id,
       o.id AS option_id,
       o.option_text,
       o.position,
       COUNT(v.id) AS vote_count
FROM poll_options o
LEFT JOIN votes v ON v.poll_id = o.poll_id AND v.option_id = o.id
GROUP BY o.poll_id, o.id, o.option_text, o.position;
`

const sqliteSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT,
    creator_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC);

-- Options
CREATE TABLE IF NOT EXISTS poll_options (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    position INTEGER NOT NULL,
    UNIQUE (poll_id, id),
    UNIQUE (poll_id, position)
);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (poll_id, user_id),
    FOREIGN KEY (poll_id, option_id) REFERENCES poll_options(poll_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id);

-- Results
CREATE VIEW IF NOT EXISTS poll_results AS
SELECT o.poll_id,
       o.id AS option_id,
       o.option_text,
       o.position,
       COUNT(v.id) AS vote_count
FROM poll_options o
LEFT JOIN votes v ON v.poll_id = o.poll_id AND v.option_id = o.id
GROUP BY o.poll_id, o.id, o.option_text, o.position;
`
