// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns a report into the output formats omnilens supports.
// Every renderer reads the report and writes to an io.Writer; none of them
// modifies it.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/omnilens/pkg/report"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatCSV      = "csv"
)

// ErrUnknownFormat is returned for a format no renderer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Options tunes the human-oriented renderers.
type Options struct {
	// Color enables ANSI colours in table output.
	Color bool
	// Limit caps the rows of ranked sections such as authors and hotspots.
	Limit int
}

// DefaultLimit is the row cap used when Options.Limit is zero.
const DefaultLimit = 10

func (o Options) limit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return DefaultLimit
}

// Report writes rep in the given format. The csv format writes the commit
// table.
func Report(w io.Writer, format string, rep *report.Report, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, rep)
	case FormatYAML:
		return YAML(w, rep)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(rep, opts))
		return err
	case FormatHTML:
		return HTML(w, rep, opts)
	case FormatCSV:
		return CommitsCSV(w, rep.Commits)
	case FormatTable:
		return Table(w, rep, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// YAML writes v as YAML with two-space indentation.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

type authorRow struct {
	name  string
	stats report.AuthorStats
}

// rankAuthors orders authors by commits descending, then name.
func rankAuthors(authors map[string]report.AuthorStats) []authorRow {
	rows := make([]authorRow, 0, len(authors))
	for name, s := range authors {
		rows = append(rows, authorRow{name: name, stats: s})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stats.Commits != rows[j].stats.Commits {
			return rows[i].stats.Commits > rows[j].stats.Commits
		}
		return rows[i].name < rows[j].name
	})
	return rows
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
