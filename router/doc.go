// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter builds the complete handler, already wrapped in CORS and
security headers:

	handler := router.NewRouter(store, cfg)

Every route is served both at its plain path and under /api.

# Endpoints

Health (public):

	GET /health - {"status":"ok"}

Voter (voter_token cookie, except login/logout):

	POST /voter/login  - Exchange access code for a session
	GET  /voter/ballot - Positions and candidate aliases
	POST /voter/submit - Submit full ballot (also POST /voter/ballot)
	GET  /voter/me     - Current voter
	POST /voter/logout - Clear session

Admin (admin_token cookie, except login/logout):

	POST /admin/login      - Username/password login
	GET  /admin/results    - Vote counts per candidate
	GET  /admin/turnout    - Voted / registered
	GET  /admin/export     - results.csv
	GET  /admin/audit-logs - 500 newest audit entries
	POST /admin/logout     - Clear session
*/
package router
