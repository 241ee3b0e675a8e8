// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware, session gates and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Every response carries an X-Request-ID header. Logs request start (method,
path, remote) and completion (status, duration_ms) under that id.

# Sessions

Voter and admin sessions travel in separate HTTP-only cookies (voter_token,
admin_token). RequireSession validates the cookie of one kind and stores the
payload in the request context:

	mux.HandleFunc("GET /voter/ballot",
		middleware.RequireSession(sessions, auth.KindVoter, voterHandler.Ballot))

	payload, _ := middleware.SessionFromContext(r.Context())

A missing cookie is answered with 401 "Not authenticated"; a bad, expired or
wrong-kind token with 401 "Invalid session".

# CORS and Security Headers

	handler := middleware.CORS(cfg.CORSOrigin)(middleware.SecureHeaders(mux))

CORS only answers the configured frontend origin, with credentials allowed.
Preflight requests return 204.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.VoterLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for the hashed IP in login audit entries.
*/
package middleware
