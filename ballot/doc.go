// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot validates and commits complete ballots.

	engine := ballot.NewEngine(store)
	err := engine.Submit(ctx, voterID, req.Votes)

A ballot must name every position exactly once, each with a candidate of
that position. Submit checks shape and coverage first, then opens a
transaction that locks the voter row, re-checks the voted flag, verifies
candidates, inserts the votes, flips the flag and appends an audit entry.
Any failure rolls everything back.

Errors are sentinels that callers match with errors.Is. IsRejection groups
the ones caused by the ballot or the voter's state; ErrTransientConflict
marks a lock timeout the client may retry.
*/
package ballot
