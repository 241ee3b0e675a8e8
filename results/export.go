// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"io"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-vote/models"
)

// CSVHeader is the first line of every export
const CSVHeader = "Position,Full Name,Alias,Votes"

// WriteCSV flattens positions to one line per candidate, in result order.
// Every data field is quoted and embedded quotes are doubled. Lines are
// separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, positions []models.PositionResult) error {
	lines := []string{CSVHeader}
	for _, p := range positions {
		for _, c := range p.Candidates {
			fields := []string{p.Name, c.FullName, c.Alias, strconv.FormatInt(c.Votes, 10)}
			for i, f := range fields {
				fields[i] = quote(f)
			}
			lines = append(lines, strings.Join(fields, ","))
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
