// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/bartekus/omnilens/internal/lang"
	"github.com/bartekus/omnilens/internal/reports/commithealth"
	"github.com/bartekus/omnilens/pkg/report"
)

func newTable(w io.Writer, title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	return tbl
}

func healthColor(score float64, enabled bool) *color.Color {
	var c *color.Color
	switch commithealth.Rate(score) {
	case commithealth.RatingGood:
		c = color.New(color.FgGreen, color.Bold)
	case commithealth.RatingFair:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Table writes the report as terminal tables.
func Table(w io.Writer, rep *report.Report, opts Options) error {
	agg := rep.Aggregate
	md := rep.Metadata
	td := agg.TechDebt

	summary := newTable(w, "omnilens summary")
	summary.AppendRows([]table.Row{
		{"path", md.Path},
		{"mode", md.Mode},
	})
	if md.Head != "" {
		summary.AppendRow(table.Row{"head", shortHash(md.Head)})
	}
	summary.AppendRows([]table.Row{
		{"analyzed", humanize.Time(md.AnalyzedAt)},
		{"commits", humanize.Comma(int64(agg.TotalCommits))},
		{"files", humanize.Comma(int64(agg.TotalFiles))},
		{"lines of code", fmt.Sprintf("%s (%s effective)",
			humanize.Comma(int64(agg.TotalLOC)), humanize.Comma(int64(agg.TotalEffectiveLOC)))},
		{"health score", healthColor(td.HealthScore, opts.Color).Sprintf("%.1f (%s)", td.HealthScore, commithealth.Rate(td.HealthScore))},
		{"maintainability", fmt.Sprintf("%.1f", td.MaintainabilityIndex)},
		{"complexity score", fmt.Sprintf("%.1f", td.ComplexityScore)},
		{"bus factor", agg.BusFactor},
	})
	if rep.Metadata.Cached {
		summary.AppendRow(table.Row{"cached", "yes"})
	}
	summary.Render()

	if len(agg.Categories) > 0 {
		total := agg.Categories.Total()
		t := newTable(w, "Categories")
		t.AppendHeader(table.Row{"category", "commits", "share"})
		for _, c := range agg.Categories {
			t.AppendRow(table.Row{c.Category, c.Count, fmt.Sprintf("%.1f%%", share(c.Count, total))})
		}
		t.AppendFooter(table.Row{"total", total, ""})
		t.Render()
	}

	if len(agg.Authors) > 0 {
		t := newTable(w, "Authors")
		t.AppendHeader(table.Row{"author", "commits", "+", "-", "files"})
		for _, a := range truncate(rankAuthors(agg.Authors), opts.limit()) {
			t.AppendRow(table.Row{
				a.name, a.stats.Commits,
				humanize.Comma(int64(a.stats.Insertions)),
				humanize.Comma(int64(a.stats.Deletions)),
				a.stats.FilesChanged,
			})
		}
		t.Render()
	}

	if len(agg.BreakingChanges) > 0 {
		t := newTable(w, "Breaking changes")
		t.AppendHeader(table.Row{"hash", "subject", "description"})
		for _, bc := range agg.BreakingChanges {
			t.AppendRow(table.Row{shortHash(bc.Hash), bc.Subject, bc.Description})
		}
		t.Render()
	}

	if len(agg.Hotspots) > 0 {
		t := newTable(w, "Hotspots")
		t.AppendHeader(table.Row{"file", "commits", "changes"})
		for _, h := range truncate(agg.Hotspots, opts.limit()) {
			t.AppendRow(table.Row{h.Path, h.Commits, humanize.Comma(int64(h.Changes))})
		}
		t.Render()
	}

	if len(rep.Warnings) > 0 {
		t := newTable(w, "Warnings")
		t.AppendHeader(table.Row{"file", "message"})
		for _, warn := range rep.Warnings {
			t.AppendRow(table.Row{warn.Path, warn.Message})
		}
		t.Render()
	}
	return nil
}

// DiffTable writes a branch comparison as terminal tables.
func DiffTable(w io.Writer, base, head string, diff report.CommitDiff) error {
	counts := newTable(w, fmt.Sprintf("%s vs %s", base, head))
	counts.AppendRows([]table.Row{
		{"common", len(diff.Common)},
		{"only in " + base, len(diff.OnlyInFirst)},
		{"only in " + head, len(diff.OnlyInSecond)},
	})
	counts.Render()

	for _, section := range []struct {
		ref     string
		commits []report.CommitRecord
	}{
		{base, diff.OnlyInFirst},
		{head, diff.OnlyInSecond},
	} {
		if len(section.commits) == 0 {
			continue
		}
		t := newTable(w, "Only in "+section.ref)
		t.AppendHeader(table.Row{"hash", "category", "author", "subject"})
		for _, c := range section.commits {
			t.AppendRow(table.Row{shortHash(c.Hash), c.Category, c.AuthorName, c.Subject})
		}
		t.Render()
	}
	return nil
}

// Languages lists the extension table, marking languages that have a symbol
// analyzer.
func Languages(w io.Writer, exts []lang.Extension, analyzed func(language string) bool) error {
	t := newTable(w, "Languages")
	t.AppendHeader(table.Row{"extension", "language", "symbols"})
	for _, e := range exts {
		t.AppendRow(table.Row{e.Extension, e.Language, strconv.FormatBool(analyzed(e.Language))})
	}
	t.AppendFooter(table.Row{"", "total", len(exts)})
	t.Render()
	return nil
}

// Categories lists the commit categories with the type tokens that map to
// each.
func Categories(w io.Writer, categories []report.Category, synonyms func(report.Category) []string) error {
	t := newTable(w, "Categories")
	t.AppendHeader(table.Row{"category", "type tokens"})
	for _, c := range categories {
		tokens := synonyms(c)
		cell := "(anything else)"
		if len(tokens) > 0 {
			cell = strings.Join(tokens, ", ")
		}
		t.AppendRow(table.Row{c, cell})
	}
	t.Render()
	return nil
}
