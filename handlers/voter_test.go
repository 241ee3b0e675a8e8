// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

type testElection struct {
	president, treasurer int64
	alice, bob, carol    int64
}

func seedElection(t *testing.T, db *sql.DB) testElection {
	t.Helper()

	var e testElection
	e.president = testutil.CreateTestPosition(t, db, "President")
	e.treasurer = testutil.CreateTestPosition(t, db, "Treasurer")
	e.alice = testutil.AddTestCandidate(t, db, e.president, "Alice Smith", "Alice")
	e.bob = testutil.AddTestCandidate(t, db, e.president, "Bob Jones", "Bob")
	e.carol = testutil.AddTestCandidate(t, db, e.treasurer, "Carol White", "Carol")
	return e
}

func choice(positionID, candidateID int64) models.VoteChoice {
	return models.VoteChoice{PositionID: &positionID, CandidateID: &candidateID}
}

func newVoterHandler(db *sql.DB, cfg cliparse.Config) (*VoterHandler, *auth.Sessions) {
	sessions := auth.NewSessions(cfg.JWTSecret)
	return NewVoterHandler(testutil.NewTestStore(db), sessions, cfg), sessions
}

func TestVoterLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, sessions := newVoterHandler(db, cfg)

	unused := testutil.CreateTestVoter(t, db, "Jane Doe", "VOTE-0001")
	used := testutil.CreateTestVoter(t, db, "John Roe", "VOTE-0002")
	if _, err := db.Exec(`UPDATE voters SET voted = TRUE WHERE id = $1`, used); err != nil {
		t.Fatalf("Failed to mark voter: %v", err)
	}

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "valid unused code",
			body:           models.VoterLoginRequest{AccessCode: "VOTE-0001"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "surrounding whitespace is ignored",
			body:           models.VoterLoginRequest{AccessCode: "  VOTE-0001 "},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown code",
			body:           models.VoterLoginRequest{AccessCode: "VOTE-9999"},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid access code",
		},
		{
			name:           "code already used",
			body:           models.VoterLoginRequest{AccessCode: "VOTE-0002"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Access code already used",
		},
		{
			name:           "missing code",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Access code is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/voter/login", tt.body)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message != tt.expectedMsg {
					t.Errorf("Expected message '%s', got '%s'", tt.expectedMsg, resp.Message)
				}
				if testutil.FindCookie(w, middleware.VoterCookie) != nil {
					t.Error("Expected no session cookie on failed login")
				}
				return
			}

			cookie := testutil.FindCookie(w, middleware.VoterCookie)
			if cookie == nil {
				t.Fatal("Expected voter session cookie")
			}
			if !cookie.HttpOnly {
				t.Error("Expected HttpOnly session cookie")
			}
			payload, err := sessions.Validate(auth.KindVoter, cookie.Value)
			if err != nil {
				t.Fatalf("Expected valid voter session, got %v", err)
			}
			if payload.VoterID != unused {
				t.Errorf("Expected session for voter %d, got %d", unused, payload.VoterID)
			}

			var resp models.VoterLoginResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Voter.ID != unused || resp.Voter.Name != "Jane Doe" || resp.Voter.Voted {
				t.Errorf("Unexpected voter profile %+v", resp.Voter)
			}
		})
	}
}

func TestVoterLogin_WritesAuditEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, _ := newVoterHandler(db, cfg)
	id := testutil.CreateTestVoter(t, db, "Jane Doe", "VOTE-0001")

	req := testutil.MakeRequest("POST", "/voter/login", models.VoterLoginRequest{AccessCode: "VOTE-0001"})
	req.RemoteAddr = "203.0.113.7:51234"
	w := httptest.NewRecorder()
	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var actor, action, details string
	if err := db.QueryRow(`SELECT actor, action, details FROM audit_logs`).Scan(&actor, &action, &details); err != nil {
		t.Fatalf("Expected a login audit entry: %v", err)
	}
	if actor != auth.VoterActor(id) || action != models.ActionLogin {
		t.Errorf("Unexpected audit entry %s/%s", actor, action)
	}
	if strings.Contains(details, "203.0.113.7") {
		t.Error("Audit details must not contain the raw client IP")
	}
	if !strings.Contains(details, auth.HashIP("203.0.113.7", cfg.JWTSecret)) {
		t.Errorf("Expected hashed IP in details, got '%s'", details)
	}
}

func TestVoterBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, sessions := newVoterHandler(db, cfg)
	e := seedElection(t, db)
	testutil.CastTestVotes(t, db, e.president, e.alice, 2)

	voter := testutil.CreateTestVoter(t, db, "Jane Doe", "VOTE-0001")
	cookie := testutil.SessionCookie(t, cfg, auth.KindVoter, auth.Payload{VoterID: voter})

	req := testutil.MakeRequest("GET", "/voter/ballot", nil, cookie)
	w := httptest.NewRecorder()
	middleware.RequireSession(sessions, auth.KindVoter, handler.Ballot)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	if strings.Contains(body, "Alice Smith") || strings.Contains(body, "votes") {
		t.Errorf("Ballot must not expose full names or vote totals: %s", body)
	}

	var resp models.BallotResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(resp.Positions))
	}
	if resp.Positions[0].ID != e.president || len(resp.Positions[0].Candidates) != 2 {
		t.Errorf("Unexpected first position %+v", resp.Positions[0])
	}
	if resp.Positions[0].Candidates[0].Alias != "Alice" {
		t.Errorf("Expected alias 'Alice', got '%s'", resp.Positions[0].Candidates[0].Alias)
	}
}

func TestVoterBallot_RequiresVoterSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, sessions := newVoterHandler(db, cfg)
	gated := middleware.RequireSession(sessions, auth.KindVoter, handler.Ballot)

	adminToken := testutil.SessionCookie(t, cfg, auth.KindAdmin, auth.Payload{AdminID: 1, Username: "admin"})

	tests := []struct {
		name    string
		cookies []*http.Cookie
		message string
	}{
		{name: "no cookie", message: "Not authenticated"},
		{
			name:    "admin token presented as voter",
			cookies: []*http.Cookie{{Name: middleware.VoterCookie, Value: adminToken.Value}},
			message: "Invalid session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			gated(w, testutil.MakeRequest("GET", "/voter/ballot", nil, tt.cookies...))

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tt.message {
				t.Errorf("Expected message '%s', got '%s'", tt.message, resp.Message)
			}
		})
	}
}

func TestVoterSubmit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, sessions := newVoterHandler(db, cfg)
	gated := middleware.RequireSession(sessions, auth.KindVoter, handler.Submit)
	e := seedElection(t, db)

	pos := e.president
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedMsg    string
		expectVotes    int
	}{
		{
			name:           "invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON",
		},
		{
			name:           "empty ballot",
			body:           models.SubmitBallotRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Each vote needs a positionId and a candidateId",
		},
		{
			name:           "missing candidate",
			body:           models.SubmitBallotRequest{Votes: []models.VoteChoice{{PositionID: &pos}, choice(e.treasurer, e.carol)}},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Each vote needs a positionId and a candidateId",
		},
		{
			name:           "missing position",
			body:           models.SubmitBallotRequest{Votes: []models.VoteChoice{choice(e.president, e.alice)}},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "You must vote for every position",
		},
		{
			name: "duplicate position",
			body: models.SubmitBallotRequest{Votes: []models.VoteChoice{
				choice(e.president, e.alice), choice(e.president, e.bob), choice(e.treasurer, e.carol),
			}},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Duplicate vote for a position",
		},
		{
			name: "unknown position",
			body: models.SubmitBallotRequest{Votes: []models.VoteChoice{
				choice(e.president, e.alice), choice(e.treasurer, e.carol), choice(e.treasurer+50, e.carol),
			}},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Ballot contains an unknown position",
		},
		{
			name: "candidate mismatch",
			body: models.SubmitBallotRequest{Votes: []models.VoteChoice{
				choice(e.president, e.alice), choice(e.treasurer, e.bob),
			}},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid candidate for position",
		},
		{
			name: "valid ballot",
			body: models.SubmitBallotRequest{Votes: []models.VoteChoice{
				choice(e.president, e.bob), choice(e.treasurer, e.carol),
			}},
			expectedStatus: http.StatusOK,
			expectVotes:    2,
		},
		{
			name: "second ballot",
			body: models.SubmitBallotRequest{Votes: []models.VoteChoice{
				choice(e.president, e.alice), choice(e.treasurer, e.carol),
			}},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "You have already voted",
			expectVotes:    2,
		},
	}

	voter := testutil.CreateTestVoter(t, db, "Jane Doe", "VOTE-0001")
	cookie := testutil.SessionCookie(t, cfg, auth.KindVoter, auth.Payload{VoterID: voter})

	// Cases run in order; the last two depend on the valid ballot
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if s, ok := tt.body.(string); ok {
				req = httptest.NewRequest("POST", "/voter/submit", strings.NewReader(s))
				req.AddCookie(cookie)
			} else {
				req = testutil.MakeRequest("POST", "/voter/submit", tt.body, cookie)
			}
			w := httptest.NewRecorder()

			gated(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedMsg != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message != tt.expectedMsg {
					t.Errorf("Expected message '%s', got '%s'", tt.expectedMsg, resp.Message)
				}
			}

			if n := testutil.CountVotes(t, db, voter); n != tt.expectVotes {
				t.Errorf("Expected %d vote rows, got %d", tt.expectVotes, n)
			}
		})
	}

	if !testutil.VoterHasVoted(t, db, voter) {
		t.Error("Expected voter to be marked as voted")
	}
}

func TestVoterSubmit_UnknownVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, sessions := newVoterHandler(db, cfg)
	e := seedElection(t, db)

	cookie := testutil.SessionCookie(t, cfg, auth.KindVoter, auth.Payload{VoterID: 4242})
	req := testutil.MakeRequest("POST", "/voter/submit", models.SubmitBallotRequest{Votes: []models.VoteChoice{
		choice(e.president, e.alice), choice(e.treasurer, e.carol),
	}}, cookie)
	w := httptest.NewRecorder()

	middleware.RequireSession(sessions, auth.KindVoter, handler.Submit)(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestVoterMeAndLogout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler, sessions := newVoterHandler(db, cfg)
	voter := testutil.CreateTestVoter(t, db, "Jane Doe", "VOTE-0001")
	cookie := testutil.SessionCookie(t, cfg, auth.KindVoter, auth.Payload{VoterID: voter})

	w := httptest.NewRecorder()
	middleware.RequireSession(sessions, auth.KindVoter, handler.Me)(w, testutil.MakeRequest("GET", "/voter/me", nil, cookie))
	testutil.AssertStatus(t, w, http.StatusOK)

	var profile models.VoterProfile
	testutil.AssertJSON(t, w, &profile)
	if profile.ID != voter || profile.Name != "Jane Doe" || profile.Voted {
		t.Errorf("Unexpected profile %+v", profile)
	}

	// A session for a voter that no longer exists is treated as invalid
	stale := testutil.SessionCookie(t, cfg, auth.KindVoter, auth.Payload{VoterID: voter + 1})
	w = httptest.NewRecorder()
	middleware.RequireSession(sessions, auth.KindVoter, handler.Me)(w, testutil.MakeRequest("GET", "/voter/me", nil, stale))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	handler.Logout(w, testutil.MakeRequest("POST", "/voter/logout", nil, cookie))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	cleared := testutil.FindCookie(w, middleware.VoterCookie)
	if cleared == nil || cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("Expected voter cookie to be cleared, got %+v", cleared)
	}
}
