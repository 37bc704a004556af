// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bartekus/omnilens/internal/projection"
	"github.com/bartekus/omnilens/internal/reports/commithealth"
	"github.com/bartekus/omnilens/pkg/report"
)

// Markdown renders the report as a Markdown document.
func Markdown(rep *report.Report, opts Options) string {
	var b strings.Builder
	agg := rep.Aggregate
	md := rep.Metadata

	b.WriteString(projection.RenderHeader(1, "omnilens report"))

	summary := []string{
		"Path: " + projection.Code(md.Path),
		"Mode: " + string(md.Mode),
	}
	if md.Head != "" {
		summary = append(summary, "Head: "+projection.Code(shortHash(md.Head)))
	}
	if md.Since != "" || md.Until != "" {
		summary = append(summary, fmt.Sprintf("Range: %s .. %s", orAny(md.Since), orAny(md.Until)))
	}
	if md.Author != "" {
		summary = append(summary, "Author filter: "+md.Author)
	}
	summary = append(summary,
		"Analyzed at: "+md.AnalyzedAt.UTC().Format(time.RFC3339),
		"Commits: "+humanize.Comma(int64(agg.TotalCommits)),
		"Files: "+humanize.Comma(int64(agg.TotalFiles)),
		fmt.Sprintf("Lines of code: %s (%s effective)",
			humanize.Comma(int64(agg.TotalLOC)), humanize.Comma(int64(agg.TotalEffectiveLOC))),
	)
	if !md.FirstCommit.IsZero() {
		summary = append(summary, fmt.Sprintf("History: %s to %s (%d days)",
			md.FirstCommit.UTC().Format("2006-01-02"), md.LastCommit.UTC().Format("2006-01-02"), md.DurationDays))
	}
	b.WriteString(projection.RenderList(summary))
	b.WriteString("\n")

	td := agg.TechDebt
	b.WriteString(projection.RenderHeader(2, "Health"))
	b.WriteString(projection.RenderTable([]string{"metric", "value"}, [][]string{
		{"health score", fmt.Sprintf("%.1f (%s)", td.HealthScore, commithealth.Rate(td.HealthScore))},
		{"feature commits", fmt.Sprintf("%d (%.1f%%)", td.FeatureCommits, td.FeaturePercentage)},
		{"debt commits", fmt.Sprintf("%d (%.1f%%)", td.DebtCommits, td.DebtPercentage)},
		{"maintenance commits", fmt.Sprintf("%d (%.1f%%)", td.MaintenanceCommits, td.MaintenancePercentage)},
		{"complexity score", fmt.Sprintf("%.1f", td.ComplexityScore)},
		{"maintainability index", fmt.Sprintf("%.1f", td.MaintainabilityIndex)},
		{"average complexity", fmt.Sprintf("%.2f", agg.AverageComplexity)},
		{"bus factor", strconv.Itoa(agg.BusFactor)},
	}))
	b.WriteString("\n")

	if len(agg.Categories) > 0 {
		total := agg.Categories.Total()
		rows := make([][]string, 0, len(agg.Categories))
		for _, c := range agg.Categories {
			rows = append(rows, []string{string(c.Category), strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", share(c.Count, total))})
		}
		b.WriteString(projection.RenderHeader(2, "Categories"))
		b.WriteString(projection.RenderTable([]string{"category", "commits", "share"}, rows))
		b.WriteString("\n")
	}

	if len(agg.Authors) > 0 {
		var rows [][]string
		for _, a := range truncate(rankAuthors(agg.Authors), opts.limit()) {
			rows = append(rows, []string{
				a.name,
				strconv.Itoa(a.stats.Commits),
				humanize.Comma(int64(a.stats.Insertions)),
				humanize.Comma(int64(a.stats.Deletions)),
				strconv.Itoa(a.stats.FilesChanged),
			})
		}
		b.WriteString(projection.RenderHeader(2, "Authors"))
		b.WriteString(projection.RenderTable([]string{"author", "commits", "insertions", "deletions", "files changed"}, rows))
		b.WriteString("\n")
	}

	if len(agg.BreakingChanges) > 0 {
		items := make([]string, 0, len(agg.BreakingChanges))
		for _, bc := range agg.BreakingChanges {
			item := projection.Code(shortHash(bc.Hash)) + " " + bc.Subject
			if bc.Description != "" {
				item += ": " + bc.Description
			}
			items = append(items, item)
		}
		b.WriteString(projection.RenderHeader(2, "Breaking changes"))
		b.WriteString(projection.RenderList(items))
		b.WriteString("\n")
	}

	if len(agg.Languages) > 0 {
		var rows [][]string
		for _, l := range projection.SortedKeys(agg.Languages) {
			rows = append(rows, []string{l, strconv.Itoa(agg.Languages[l])})
		}
		b.WriteString(projection.RenderHeader(2, "Languages"))
		b.WriteString(projection.RenderTable([]string{"language", "files"}, rows))
		b.WriteString("\n")
	}

	if len(agg.Hotspots) > 0 {
		var rows [][]string
		for _, h := range truncate(agg.Hotspots, opts.limit()) {
			rows = append(rows, []string{projection.Code(h.Path), strconv.Itoa(h.Commits), humanize.Comma(int64(h.Changes))})
		}
		b.WriteString(projection.RenderHeader(2, "Hotspots"))
		b.WriteString(projection.RenderTable([]string{"file", "commits", "changes"}, rows))
		b.WriteString("\n")
	}

	if len(rep.Warnings) > 0 {
		items := make([]string, 0, len(rep.Warnings))
		for _, w := range rep.Warnings {
			items = append(items, projection.Code(w.Path)+": "+w.Message)
		}
		b.WriteString(projection.RenderHeader(2, "Warnings"))
		b.WriteString(projection.RenderList(items))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// DiffMarkdown renders a branch comparison.
func DiffMarkdown(base, head string, diff report.CommitDiff) string {
	var b strings.Builder
	b.WriteString(projection.RenderHeader(1, fmt.Sprintf("Commits: %s vs %s", base, head)))
	b.WriteString(projection.RenderList([]string{
		fmt.Sprintf("Common: %d", len(diff.Common)),
		fmt.Sprintf("Only in %s: %d", base, len(diff.OnlyInFirst)),
		fmt.Sprintf("Only in %s: %d", head, len(diff.OnlyInSecond)),
	}))
	for _, section := range []struct {
		title   string
		commits []report.CommitRecord
	}{
		{"Only in " + base, diff.OnlyInFirst},
		{"Only in " + head, diff.OnlyInSecond},
	} {
		if len(section.commits) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, section.title))
		var rows [][]string
		for _, c := range section.commits {
			rows = append(rows, []string{projection.Code(shortHash(c.Hash)), string(c.Category), c.AuthorName, c.Subject})
		}
		b.WriteString(projection.RenderTable([]string{"hash", "category", "author", "subject"}, rows))
	}
	return b.String()
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
