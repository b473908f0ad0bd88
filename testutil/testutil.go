// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/votehub/auth"
	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/db"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, removed with the test's temp dir.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "votehub.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.TypeSQLite,
		JWTSecret:    TestJWTSecret,
		ReadRetries:  0,
	}
}

// CreateTestPoll inserts a poll with the given options directly and returns
// the poll ID and option IDs in position order. A nil expiresAt makes a poll
// that never expires.
func CreateTestPoll(t *testing.T, conn *sql.DB, title string, expiresAt *time.Time, options ...string) (string, []string) {
	t.Helper()

	pollID := uuid.NewString()
	var expires sql.NullTime
	if expiresAt != nil {
		expires = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	_, err := conn.Exec(`
		INSERT INTO polls (id, title, description, creator_id, created_at, expires_at)
		VALUES ($1, $2, 'A test poll', 'test-creator', $3, $4)
	`, pollID, title, time.Now().UTC(), expires)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, len(options))
	for i, text := range options {
		optionID := uuid.NewString()
		_, err := conn.Exec(`
			INSERT INTO poll_options (id, poll_id, option_text, position)
			VALUES ($1, $2, $3, $4)
		`, optionID, pollID, text, i)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// CastTestVote inserts a vote directly, bypassing the ledger.
func CastTestVote(t *testing.T, conn *sql.DB, pollID, optionID, voterID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO votes (id, poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pollID, optionID, voterID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CountVotes returns the number of votes stored for a poll
func CountVotes(t *testing.T, conn *sql.DB, pollID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM votes WHERE poll_id = $1`, pollID).Scan(&n); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// AuthHeader returns an Authorization header for the voter
func AuthHeader(t *testing.T, voterID string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(voterID, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
