// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results aggregates committed votes for the admin dashboard.

	positions, err := results.ComputeResults(ctx, db)
	turnout, err := results.ComputeTurnout(ctx, db)
	err = results.WriteCSV(w, positions)

Candidates are ranked by votes descending with ties going to the lower
candidate id, so the dashboard and the export always agree. Turnout
percentages are rounded to two decimals and are 0 when no voters exist.

Reads are not isolated from in-flight submissions.
*/
package results
