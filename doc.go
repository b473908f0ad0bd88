// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VoteHub API server.

VoteHub is a small polling service: create a poll with two or more options,
cast one vote per user per poll, and watch the results update live.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	JWT_SECRET=... DATABASE_URL=file:votehub.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HS256 secret for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_URL (-redis): Share live updates between processes
  - READ_RETRIES (-read-retries): Read retries when the store is unavailable
  - CORS_ORIGIN (-cors-origin): Allowed browser origin

# Development Tokens

Sign-in lives outside this service. For local testing, mint a token:

	go run . -issue-token alice
	curl -H "Authorization: Bearer $TOKEN" localhost:3318/polls

# Architecture

The server uses a handler-based architecture with dependency injection:

  - store: polls, the vote ledger, and tallies
  - handlers: HTTP request handlers (polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, JSON helpers
  - live: Vote notifications (in-process or Redis)
  - models: Request/response types
  - auth: Session tokens
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
