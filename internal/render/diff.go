// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"io"

	"github.com/bartekus/omnilens/pkg/report"
)

// Diff writes a branch comparison in the given format.
func Diff(w io.Writer, format, base, head string, diff report.CommitDiff) error {
	switch format {
	case FormatJSON:
		return JSON(w, diff)
	case FormatYAML:
		return YAML(w, diff)
	case FormatMarkdown:
		_, err := io.WriteString(w, DiffMarkdown(base, head, diff))
		return err
	case FormatCSV:
		columns := append([]string{"side"}, report.CommitColumns()...)
		var rows [][]string
		for _, side := range []struct {
			name    string
			commits []report.CommitRecord
		}{
			{"common", diff.Common},
			{base, diff.OnlyInFirst},
			{head, diff.OnlyInSecond},
		} {
			for _, r := range report.CommitRows(side.commits) {
				rows = append(rows, append([]string{side.name}, r...))
			}
		}
		return CSV(w, columns, rows)
	case FormatTable:
		return DiffTable(w, base, head, diff)
	default:
		return fmt.Errorf("%w for diff: %q", ErrUnknownFormat, format)
	}
}
