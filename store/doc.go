// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer for voters, admins, the ballot
structure, votes and the audit log.

A single Store is created at startup and shared:

	s := store.New(conn, cfg.DatabaseType)

Read-only lookups go through the pool. Methods that take a *sql.Tx
(LockVoter, InsertVote, MarkVoted) are only meant for the ballot
submission transaction. AppendAudit accepts any Querier so an entry can
commit together with the ballot it describes.

Lookups that find nothing return ErrNotFound. IsUniqueViolation and
IsTransient classify Postgres and SQLite driver errors.
*/
package store
