// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/ballot"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

type VoterHandler struct {
	store    *store.Store
	engine   *ballot.Engine
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewVoterHandler(s *store.Store, sessions *auth.Sessions, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{
		store:    s,
		engine:   ballot.NewEngine(s),
		sessions: sessions,
		cfg:      cfg,
	}
}

// Login handles POST /voter/login
// Exchanges an unused access code for a voter session cookie
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.VoterLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := strings.TrimSpace(req.AccessCode)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Access code is required")
		return
	}

	voter, err := h.store.VoterByAccessCode(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid access code")
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	if voter.Voted {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Access code already used")
		return
	}

	token, expiresAt, err := h.sessions.Issue(auth.KindVoter, auth.Payload{VoterID: voter.ID})
	if err != nil {
		slog.Error("failed to issue voter session", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}
	middleware.SetSessionCookie(w, auth.KindVoter, token, expiresAt, h.cfg.Production)

	details := fmt.Sprintf("Voter %d logged in from %s", voter.ID, auth.HashIP(middleware.GetClientIP(r), h.cfg.JWTSecret))
	if err := h.store.AppendAudit(r.Context(), h.store.DB(), auth.VoterActor(voter.ID), models.ActionLogin, details); err != nil {
		// Non-fatal: the session is already issued
		slog.Warn("failed to audit voter login", "error", err, "voter_id", voter.ID)
	}

	slog.Info("voter logged in", "voter_id", voter.ID)

	middleware.JSONResponse(w, http.StatusOK, models.VoterLoginResponse{
		Message: "Login successful",
		Voter:   models.VoterProfile{ID: voter.ID, Name: voter.Name, Voted: voter.Voted},
	})
}

// Ballot handles GET /voter/ballot
// Returns every position with candidate aliases, never vote totals
func (h *VoterHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.ListBallot(r.Context())
	if err != nil {
		slog.Error("failed to list ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{Positions: positions})
}

// Submit handles POST /voter/submit
// Commits the complete ballot for the session's voter, exactly once
func (h *VoterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.engine.Submit(r.Context(), session.VoterID, req.Votes)
	switch {
	case err == nil:
	case errors.Is(err, ballot.ErrTransientConflict):
		slog.Warn("ballot submission conflict", "error", err, "voter_id", session.VoterID)
		middleware.ErrorResponse(w, http.StatusConflict, "Another submission is in progress, please retry")
		return
	case errors.Is(err, ballot.ErrMalformedBallot):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Each vote needs a positionId and a candidateId")
		return
	case errors.Is(err, ballot.ErrIncompleteCoverage):
		middleware.ErrorResponse(w, http.StatusBadRequest, coverageMessage(err))
		return
	case errors.Is(err, ballot.ErrCandidateMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidate for position")
		return
	case errors.Is(err, ballot.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted")
		return
	case errors.Is(err, ballot.ErrVoterNotFound):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voter not found")
		return
	default:
		slog.Error("failed to submit ballot", "error", err, "voter_id", session.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	slog.Info("ballot submitted", "voter_id", session.VoterID, "votes", len(req.Votes))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Ballot submitted successfully"})
}

func coverageMessage(err error) string {
	switch {
	case errors.Is(err, ballot.ErrDuplicatePosition):
		return "Duplicate vote for a position"
	case errors.Is(err, ballot.ErrUnknownPosition):
		return "Ballot contains an unknown position"
	default:
		return "You must vote for every position"
	}
}

// Me handles GET /voter/me
func (h *VoterHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	voter, err := h.store.VoterByID(r.Context(), session.VoterID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session")
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err, "voter_id", session.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterProfile{ID: voter.ID, Name: voter.Name, Voted: voter.Voted})
}

// Logout handles POST /voter/logout
func (h *VoterHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, auth.KindVoter, h.cfg.Production)
	w.WriteHeader(http.StatusNoContent)
}
