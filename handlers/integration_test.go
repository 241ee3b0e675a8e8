// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Voter logs in with an unused code
// 2. Voter fetches the ballot
// 3. Voter submits a full ballot
// 4. Same code is rejected at login
// 5. Same session is rejected at submit
// 6. Admin logs in and reads results, turnout, export and audit log
func TestFullVotingWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	voterHandler, sessions := newVoterHandler(db, cfg)
	adminHandler := NewAdminHandler(testutil.NewTestStore(db), sessions, cfg)

	voterOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireSession(sessions, auth.KindVoter, h)
	}
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireSession(sessions, auth.KindAdmin, h)
	}

	e := seedElection(t, db)
	testutil.CreateTestVoter(t, db, "Jane Doe", "VOTE-0001")
	testutil.CreateTestVoter(t, db, "John Roe", "VOTE-0002")
	testutil.CreateTestAdmin(t, db, "admin", "s3cret")

	// Step 1: Log in
	w := httptest.NewRecorder()
	voterHandler.Login(w, testutil.MakeRequest("POST", "/voter/login", models.VoterLoginRequest{AccessCode: "VOTE-0001"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Login failed: %d - %s", w.Code, w.Body.String())
	}
	voterCookie := testutil.FindCookie(w, middleware.VoterCookie)
	if voterCookie == nil {
		t.Fatal("Step 1 - Missing voter cookie")
	}
	var loginResp models.VoterLoginResponse
	testutil.AssertJSON(t, w, &loginResp)
	if loginResp.Voter.Voted {
		t.Fatal("Step 1 - Fresh voter reported as voted")
	}

	// Step 2: Fetch ballot
	w = httptest.NewRecorder()
	voterOnly(voterHandler.Ballot)(w, testutil.MakeRequest("GET", "/voter/ballot", nil, voterCookie))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Ballot failed: %d - %s", w.Code, w.Body.String())
	}
	var ballotResp models.BallotResponse
	testutil.AssertJSON(t, w, &ballotResp)
	if len(ballotResp.Positions) != 2 {
		t.Fatalf("Step 2 - Expected 2 positions, got %d", len(ballotResp.Positions))
	}

	// Step 3: Submit
	votes := models.SubmitBallotRequest{Votes: []models.VoteChoice{
		choice(e.president, e.bob), choice(e.treasurer, e.carol),
	}}
	w = httptest.NewRecorder()
	voterOnly(voterHandler.Submit)(w, testutil.MakeRequest("POST", "/voter/submit", votes, voterCookie))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Submit failed: %d - %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	voterOnly(voterHandler.Me)(w, testutil.MakeRequest("GET", "/voter/me", nil, voterCookie))
	var me models.VoterProfile
	testutil.AssertJSON(t, w, &me)
	if !me.Voted {
		t.Error("Step 3 - Expected voter to be marked as voted")
	}

	// Step 4: Code is spent
	w = httptest.NewRecorder()
	voterHandler.Login(w, testutil.MakeRequest("POST", "/voter/login", models.VoterLoginRequest{AccessCode: "VOTE-0001"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Step 4 - Expected 400 for used code, got %d", w.Code)
	}

	// Step 5: Resubmission is rejected
	w = httptest.NewRecorder()
	voterOnly(voterHandler.Submit)(w, testutil.MakeRequest("POST", "/voter/submit", votes, voterCookie))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Step 5 - Expected 400 for second ballot, got %d", w.Code)
	}
	var rejected models.ErrorResponse
	testutil.AssertJSON(t, w, &rejected)
	if rejected.Message != "You have already voted" {
		t.Errorf("Step 5 - Unexpected message '%s'", rejected.Message)
	}

	// Step 6: Admin dashboard
	w = httptest.NewRecorder()
	adminHandler.Login(w, testutil.MakeRequest("POST", "/admin/login", models.AdminLoginRequest{Username: "admin", Password: "s3cret"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Admin login failed: %d - %s", w.Code, w.Body.String())
	}
	adminCookie := testutil.FindCookie(w, middleware.AdminCookie)

	// A voter cookie never opens the dashboard
	w = httptest.NewRecorder()
	adminOnly(adminHandler.Results)(w, testutil.MakeRequest("GET", "/admin/results", nil, voterCookie))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Step 6 - Expected 401 for voter on admin route, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	adminOnly(adminHandler.Results)(w, testutil.MakeRequest("GET", "/admin/results", nil, adminCookie))
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)
	if results.Positions[0].Candidates[0].ID != e.bob || results.Positions[0].Candidates[0].Votes != 1 {
		t.Errorf("Step 6 - Expected Bob to lead with 1 vote, got %+v", results.Positions[0].Candidates[0])
	}

	w = httptest.NewRecorder()
	adminOnly(adminHandler.Turnout)(w, testutil.MakeRequest("GET", "/admin/turnout", nil, adminCookie))
	var turnout models.Turnout
	testutil.AssertJSON(t, w, &turnout)
	if turnout.TotalVoters != 2 || turnout.Voted != 1 || turnout.Percentage != 50 {
		t.Errorf("Step 6 - Unexpected turnout %+v", turnout)
	}

	w = httptest.NewRecorder()
	adminOnly(adminHandler.Export)(w, testutil.MakeRequest("GET", "/admin/export", nil, adminCookie))
	if !strings.HasPrefix(w.Body.String(), "Position,Full Name,Alias,Votes\n") {
		t.Errorf("Step 6 - Unexpected export %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	adminOnly(adminHandler.AuditLogs)(w, testutil.MakeRequest("GET", "/admin/audit-logs", nil, adminCookie))
	var audit models.AuditLogsResponse
	testutil.AssertJSON(t, w, &audit)

	actions := map[string]int{}
	for _, entry := range audit.Logs {
		actions[entry.Action]++
	}
	// voter login, ballot, admin login
	if actions[models.ActionLogin] != 2 || actions[models.ActionSubmitBallot] != 1 {
		t.Errorf("Step 6 - Unexpected audit actions %v", actions)
	}
}
