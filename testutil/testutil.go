// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/store"
)

// SetupTestDB creates a fresh SQLite database file with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// NewTestStore wraps a test database in a Store
func NewTestStore(conn *sql.DB) *store.Store {
	return store.New(conn, db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4000,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.TypeSQLite,
		JWTSecret:    "test-jwt-secret",
		CORSOrigin:   "http://localhost:5173",
	}
}

// CreateTestPosition inserts a position and returns its ID
func CreateTestPosition(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO positions (name, description) VALUES ($1, $2) RETURNING id
	`, name, name+" description").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
	return id
}

// AddTestCandidate adds a candidate to a position and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, positionID int64, fullName, alias string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO candidates (position_id, full_name, alias) VALUES ($1, $2, $3) RETURNING id
	`, positionID, fullName, alias).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return id
}

// CreateTestVoter inserts an unvoted voter and returns its ID
func CreateTestVoter(t *testing.T, conn *sql.DB, name, accessCode string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO voters (name, access_code, voted) VALUES ($1, $2, $3) RETURNING id
	`, name, accessCode, false).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return id
}

// CreateTestAdmin inserts an admin with a low-cost bcrypt hash of password
func CreateTestAdmin(t *testing.T, conn *sql.DB, username, password string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash admin password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO admins (username, password_hash) VALUES ($1, $2) RETURNING id
	`, username, string(hash)).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return id
}

// CastTestVotes records n ballots for candidateID from n new voters, bypassing
// the submission engine. Used to build result scenarios.
func CastTestVotes(t *testing.T, conn *sql.DB, positionID, candidateID int64, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		code := "SEED-" + uuid.NewString()
		voterID := CreateTestVoter(t, conn, fmt.Sprintf("Seed voter %d", i), code)

		_, err := conn.Exec(`
			INSERT INTO votes (id, voter_id, position_id, candidate_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), voterID, positionID, candidateID, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}

		if _, err := conn.Exec(`UPDATE voters SET voted = TRUE WHERE id = $1`, voterID); err != nil {
			t.Fatalf("Failed to mark test voter: %v", err)
		}
	}
}

// CountVotes returns the number of vote rows for a voter
func CountVotes(t *testing.T, conn *sql.DB, voterID int64) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM votes WHERE voter_id = $1`, voterID).Scan(&n); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// VoterHasVoted reads the voted flag
func VoterHasVoted(t *testing.T, conn *sql.DB, voterID int64) bool {
	t.Helper()

	var voted bool
	if err := conn.QueryRow(`SELECT voted FROM voters WHERE id = $1`, voterID).Scan(&voted); err != nil {
		t.Fatalf("Failed to read voted flag: %v", err)
	}
	return voted
}

// SessionCookie issues a session for kind and wraps it in the matching cookie
func SessionCookie(t *testing.T, cfg cliparse.Config, kind auth.Kind, payload auth.Payload) *http.Cookie {
	t.Helper()

	token, _, err := auth.NewSessions(cfg.JWTSecret).Issue(kind, payload)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}

	return &http.Cookie{Name: middleware.CookieName(kind), Value: token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, cookies ...*http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// FindCookie returns the named cookie set on the response, or nil
func FindCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
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
