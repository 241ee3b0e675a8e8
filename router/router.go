// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// NewRouter builds the full HTTP handler: routes, session gates, CORS and
// security headers. Every route is also served under /api.
func NewRouter(s *store.Store, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	sessions := auth.NewSessions(cfg.JWTSecret)

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(s, sessions, cfg)
	adminHandler := handlers.NewAdminHandler(s, sessions, cfg)

	voterOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(sessions, auth.KindVoter, h))
	}
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(sessions, auth.KindAdmin, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	})

	// Voter surface
	mux.HandleFunc("POST /voter/login", middleware.WithLogging(voterHandler.Login))
	mux.HandleFunc("GET /voter/ballot", voterOnly(voterHandler.Ballot))
	mux.HandleFunc("POST /voter/ballot", voterOnly(voterHandler.Submit))
	mux.HandleFunc("POST /voter/submit", voterOnly(voterHandler.Submit))
	mux.HandleFunc("GET /voter/me", voterOnly(voterHandler.Me))
	mux.HandleFunc("POST /voter/logout", middleware.WithLogging(voterHandler.Logout))

	// Admin dashboard
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /admin/results", adminOnly(adminHandler.Results))
	mux.HandleFunc("GET /admin/turnout", adminOnly(adminHandler.Turnout))
	mux.HandleFunc("GET /admin/export", adminOnly(adminHandler.Export))
	mux.HandleFunc("GET /admin/audit-logs", adminOnly(adminHandler.AuditLogs))
	mux.HandleFunc("POST /admin/logout", middleware.WithLogging(adminHandler.Logout))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", mux))
	root.Handle("/", mux)

	return middleware.CORS(cfg.CORSOrigin)(middleware.SecureHeaders(root))
}
