// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"strconv"
	"strings"
	"time"
)

// CommitColumns is the stable column order of the commit table.
func CommitColumns() []string {
	return []string{
		"hash",
		"author_name",
		"author_email",
		"date",
		"message",
		"category",
		"scope",
		"is_breaking",
		"insertions",
		"deletions",
		"files_changed",
	}
}

// CommitRows flattens commits into rows matching CommitColumns. The message
// column carries the subject line.
func CommitRows(commits []CommitRecord) [][]string {
	rows := make([][]string, 0, len(commits))
	for _, c := range commits {
		rows = append(rows, []string{
			c.Hash,
			c.AuthorName,
			c.AuthorEmail,
			c.Timestamp.Format(time.RFC3339),
			c.Subject,
			string(c.Category),
			c.Scope,
			strconv.FormatBool(c.IsBreaking),
			strconv.Itoa(c.Insertions),
			strconv.Itoa(c.Deletions),
			strconv.Itoa(c.FilesChanged),
		})
	}
	return rows
}

// SymbolColumns is the stable column order of the symbol table.
func SymbolColumns() []string {
	return []string{
		"name",
		"file_path",
		"line_number",
		"kind",
		"language",
		"parent",
		"bases",
		"is_test",
		"complexity",
		"method_count",
	}
}

// SymbolRows flattens symbols into rows matching SymbolColumns. Bases are
// joined with ";".
func SymbolRows(symbols []SymbolRecord) [][]string {
	rows := make([][]string, 0, len(symbols))
	for _, s := range symbols {
		rows = append(rows, []string{
			s.Name,
			s.FilePath,
			strconv.Itoa(s.LineNumber),
			string(s.Kind),
			s.Language,
			s.Parent,
			strings.Join(s.Bases, ";"),
			strconv.FormatBool(s.IsTest),
			strconv.Itoa(s.Complexity),
			strconv.Itoa(s.MethodCount),
		})
	}
	return rows
}
