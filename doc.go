// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs a single election: voters log in with a single-use access
code and submit one complete ballot covering every position; administrators
view results, turnout, a CSV export and the audit log.

# Starting the Server

	DATABASE_URL=file:vote.db go run .

Or against Postgres with flags:

	go run . -p 4000 -t postgres -d "postgres://..." -jwt-secret "..."

A .env file in the working directory is loaded first; real environment
variables and flags take precedence.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or Postgres connection string

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 4000)
  - JWT_SECRET (-jwt-secret): session signing secret; required in production
  - APP_ENV=production (-prod): secure cookies, no default secret
  - CORS_ORIGIN (-cors-origin): frontend origin (default: http://localhost:5173)

# Provisioning

Voters, positions and candidates are inserted directly into the database.
Admin password hashes come from cmd/hashpassword:

	go run ./cmd/hashpassword 'correct horse battery staple'

# Architecture

  - handlers: voter and admin HTTP handlers
  - router: route table, /api alias, CORS
  - ballot: transactional ballot submission
  - results: vote tallies, turnout, CSV export
  - store: persistence and audit log
  - auth: sessions, passwords, IP hashing
  - middleware: logging, session gate, JSON helpers
  - models: request/response types
  - db: connections and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
