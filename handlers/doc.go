// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct holding the shared store, the session issuer and config:

  - VoterHandler: access-code login, ballot retrieval, ballot submission
  - AdminHandler: password login, results, turnout, CSV export, audit log

	voterHandler := handlers.NewVoterHandler(store, sessions, cfg)
	adminHandler := handlers.NewAdminHandler(store, sessions, cfg)

# Voter Flow

	POST /voter/login  → Login (sets voter_token cookie)
	GET  /voter/ballot → Ballot (aliases only, no vote totals)
	POST /voter/submit → Submit (full ballot, exactly once)
	GET  /voter/me     → Me
	POST /voter/logout → Logout

A code that has already voted cannot log in again (400). Submission
rejections are 400 with a short message; a lock conflict is 409 and may be
retried.

# Admin Dashboard

	POST /admin/login      → Login (sets admin_token cookie)
	GET  /admin/results    → Results
	GET  /admin/turnout    → Turnout
	GET  /admin/export     → Export (results.csv)
	GET  /admin/audit-logs → AuditLogs (500 newest)
	POST /admin/logout     → Logout

Every route except the logins expects the router to wrap it in
middleware.RequireSession for the matching session kind.
*/
package handlers
