// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from the database type and pings the connection:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Postgres uses lib/pq. SQLite uses the pure-Go modernc.org/sqlite driver; its
DSN is extended with foreign_keys, busy_timeout, _txlock=immediate and
_time_format=sqlite so that write transactions are serialised and timestamps
sort correctly.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voters: display name, single-use access code, voted flag
  - admins: username and bcrypt password hash
  - positions: ballot structure
  - candidates: full name and public alias, one position each
  - votes: one row per voter per position
  - audit_logs: append-only security log

# Relationships

	positions 1──* candidates
	voters    1──* votes
	positions 1──* votes
	candidates 1──* votes

votes carries UNIQUE (voter_id, position_id).
*/
package db
