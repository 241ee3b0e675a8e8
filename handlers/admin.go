// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/results"
	"github.com/danielhkuo/quickly-vote/store"
)

type AdminHandler struct {
	store    *store.Store
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewAdminHandler(s *store.Store, sessions *auth.Sessions, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: s, sessions: sessions, cfg: cfg}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.store.AdminByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		// Same cost as a wrong password so usernames cannot be probed by timing
		auth.BurnPasswordCheck(req.Password)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to look up admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		slog.Warn("admin login failed", "username", admin.Username)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := h.sessions.Issue(auth.KindAdmin, auth.Payload{AdminID: admin.ID, Username: admin.Username})
	if err != nil {
		slog.Error("failed to issue admin session", "error", err, "admin_id", admin.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}
	middleware.SetSessionCookie(w, auth.KindAdmin, token, expiresAt, h.cfg.Production)

	details := fmt.Sprintf("Admin %s logged in from %s", admin.Username, auth.HashIP(middleware.GetClientIP(r), h.cfg.JWTSecret))
	if err := h.store.AppendAudit(r.Context(), h.store.DB(), auth.AdminActor(admin.Username), models.ActionLogin, details); err != nil {
		slog.Warn("failed to audit admin login", "error", err, "username", admin.Username)
	}

	slog.Info("admin logged in", "username", admin.Username)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Login successful"})
}

// Results handles GET /admin/results
func (h *AdminHandler) Results(w http.ResponseWriter, r *http.Request) {
	positions, err := results.ComputeResults(r.Context(), h.store.DB())
	if err != nil {
		slog.Error("failed to compute results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{Positions: positions})
}

// Turnout handles GET /admin/turnout
func (h *AdminHandler) Turnout(w http.ResponseWriter, r *http.Request) {
	turnout, err := results.ComputeTurnout(r.Context(), h.store.DB())
	if err != nil {
		slog.Error("failed to compute turnout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, turnout)
}

// Export handles GET /admin/export
// Returns the results as a CSV attachment
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	positions, err := results.ComputeResults(r.Context(), h.store.DB())
	if err != nil {
		slog.Error("failed to compute results for export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Render fully before writing headers so a failure can still become a 500
	var buf bytes.Buffer
	if err := results.WriteCSV(&buf, positions); err != nil {
		slog.Error("failed to render CSV", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write CSV response", "error", err)
	}
}

// AuditLogs handles GET /admin/audit-logs
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.ListAudit(r.Context(), store.DefaultAuditLimit)
	if err != nil {
		slog.Error("failed to list audit logs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuditLogsResponse{Logs: logs})
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, auth.KindAdmin, h.cfg.Production)
	w.WriteHeader(http.StatusNoContent)
}
