// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// sqliteParams are added to every SQLite DSN that does not already carry
// them. Foreign keys are off by default in SQLite and the votes table depends
// on them. Timestamps are written in SQLite's own format so they sort as text.
var sqliteParams = []struct {
	marker string
	param  string
}{
	{"_pragma=foreign_keys(1)", "_pragma=foreign_keys(1)"},
	{"_pragma=busy_timeout(", "_pragma=busy_timeout(5000)"},
	{"_time_format=", "_time_format=sqlite"},
}

// Open connects to the database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch dbType {
	case TypePostgres:
		conn, err = sql.Open("postgres", url)
	case TypeSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; serialize access through one connection
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	var missing []string
	for _, p := range sqliteParams {
		if !strings.Contains(url, p.marker) {
			missing = append(missing, p.param)
		}
	}
	if len(missing) == 0 {
		return url
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(missing, "&")
}
