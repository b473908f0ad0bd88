// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	_ = cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads a .env file into the process environment first. Variables
that are already set are left alone.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite file URL (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: HS256 secret for session tokens (required)
  - RedisURL: Enables the Redis live-update broker (optional)
  - ReadRetries: Retries for reads when the store is unavailable (default: 2)
  - CORSOrigin: Allowed origin (default: *)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-jwt-secret    JWT signing secret
	-redis         Redis URL
	-read-retries  Read retry count
	-cors-origin   Allowed CORS origin
	-issue-token   Print a session token for a voter ID and exit
	-token-ttl     Lifetime of printed tokens (default: 24h)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	JWT_SECRET    → -jwt-secret
	REDIS_URL     → -redis
	READ_RETRIES  → -read-retries
	CORS_ORIGIN   → -cors-origin

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - JWT_SECRET must be provided
  - DATABASE_URL must be provided, unless -issue-token is set
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
