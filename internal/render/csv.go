// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bartekus/omnilens/pkg/report"
)

// CSV writes a header row followed by rows.
func CSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	return nil
}

// CommitsCSV writes the flat commit table.
func CommitsCSV(w io.Writer, commits []report.CommitRecord) error {
	return CSV(w, report.CommitColumns(), report.CommitRows(commits))
}

// SymbolsCSV writes the flat symbol table.
func SymbolsCSV(w io.Writer, symbols []report.SymbolRecord) error {
	return CSV(w, report.SymbolColumns(), report.SymbolRows(symbols))
}
