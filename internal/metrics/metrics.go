// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics folds parsed commits and analyzed files into the
// aggregate section of a report.
package metrics

import (
	"path"
	"sort"

	"github.com/bartekus/omnilens/internal/reports/commithealth"
	"github.com/bartekus/omnilens/pkg/report"
)

// DefaultHotspots is the number of files kept as hotspots.
const DefaultHotspots = 10

// Aggregate builds the aggregate report. Commits are expected in miner order
// and files in path order; both are only read.
func Aggregate(commits []report.CommitRecord, files []report.FileRecord) report.AggregateReport {
	churn := Churn(commits)
	agg := report.AggregateReport{
		Categories:      Categories(commits),
		Authors:         Authors(commits),
		BreakingChanges: BreakingChanges(commits),
		TotalCommits:    len(commits),
		Languages:       map[string]int{},
		Ownership:       Ownership(commits),
		BusFactor:       BusFactor(commits),
		Churn:           churn,
		Hotspots:        Hotspots(churn, DefaultHotspots),
		Dependencies:    Dependencies(files),
	}

	metrics := make([]report.FileMetrics, 0, len(files))
	for _, f := range files {
		metrics = append(metrics, f.Metrics)
		agg.TotalLOC += f.Metrics.Lines
		agg.TotalEffectiveLOC += f.Metrics.EffectiveLines
		agg.TotalComplexity += f.Metrics.Complexity
		agg.Languages[f.Language]++
	}
	agg.TotalFiles = len(files)
	if agg.TotalFiles > 0 {
		agg.AverageComplexity = float64(agg.TotalComplexity) / float64(agg.TotalFiles)
	}
	agg.TechDebt = commithealth.Compute(commits, metrics)
	return agg
}

// Categories counts commits per category in first-occurrence order.
func Categories(commits []report.CommitRecord) report.CategoryBreakdown {
	b := report.CategoryBreakdown{}
	for _, c := range commits {
		b.Add(c.Category)
	}
	return b
}

// Authors sums commit statistics per author name.
func Authors(commits []report.CommitRecord) map[string]report.AuthorStats {
	out := make(map[string]report.AuthorStats)
	for _, c := range commits {
		s := out[c.AuthorName]
		s.Commits++
		s.Insertions += c.Insertions
		s.Deletions += c.Deletions
		s.FilesChanged += c.FilesChanged
		out[c.AuthorName] = s
	}
	return out
}

// BreakingChanges lists breaking commits in miner order.
func BreakingChanges(commits []report.CommitRecord) []report.BreakingEntry {
	out := []report.BreakingEntry{}
	for _, c := range commits {
		if !c.IsBreaking || c.Breaking == nil {
			continue
		}
		out = append(out, report.BreakingEntry{
			Hash:        c.Hash,
			Subject:     c.Subject,
			Type:        c.Breaking.Type,
			Description: c.Breaking.Description,
		})
	}
	return out
}

type authorCount struct {
	name    string
	commits int
}

// rank orders authors by commits descending, then name.
func rank(counts map[string]int) []authorCount {
	out := make([]authorCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, authorCount{name: name, commits: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].commits != out[j].commits {
			return out[i].commits > out[j].commits
		}
		return out[i].name < out[j].name
	})
	return out
}

// busFactor is the smallest number of top authors whose commits exceed half
// of the total.
func busFactor(ranked []authorCount, total int) int {
	covered := 0
	for i, a := range ranked {
		covered += a.commits
		if covered*2 > total {
			return i + 1
		}
	}
	return len(ranked)
}

// BusFactor computes the repository-wide bus factor; 0 without commits.
func BusFactor(commits []report.CommitRecord) int {
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.AuthorName]++
	}
	return busFactor(rank(counts), len(commits))
}

// Ownership reports, per touched file, how its commits spread over authors.
// Files are sorted by path.
func Ownership(commits []report.CommitRecord) []report.FileOwnership {
	perFile := make(map[string]map[string]int)
	for _, c := range commits {
		for _, f := range c.Files {
			authors, ok := perFile[f.Path]
			if !ok {
				authors = make(map[string]int)
				perFile[f.Path] = authors
			}
			authors[c.AuthorName]++
		}
	}

	out := make([]report.FileOwnership, 0, len(perFile))
	for p, authors := range perFile {
		total := 0
		for _, n := range authors {
			total += n
		}
		ranked := rank(authors)
		out = append(out, report.FileOwnership{
			Path:      p,
			Commits:   total,
			Authors:   len(authors),
			TopAuthor: ranked[0].name,
			TopShare:  float64(ranked[0].commits) / float64(total),
			BusFactor: busFactor(ranked, total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Churn sums line changes per file across commits, sorted by path.
func Churn(commits []report.CommitRecord) []report.FileChurn {
	byPath := make(map[string]*report.FileChurn)
	for _, c := range commits {
		for _, f := range c.Files {
			fc, ok := byPath[f.Path]
			if !ok {
				fc = &report.FileChurn{Path: f.Path}
				byPath[f.Path] = fc
			}
			fc.Commits++
			fc.Insertions += f.Insertions
			fc.Deletions += f.Deletions
			fc.Changes += f.Insertions + f.Deletions
		}
	}

	out := make([]report.FileChurn, 0, len(byPath))
	for _, fc := range byPath {
		out = append(out, *fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Hotspots returns up to limit files by changes descending, then path.
func Hotspots(churn []report.FileChurn, limit int) []report.FileChurn {
	out := append([]report.FileChurn(nil), churn...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Changes != out[j].Changes {
			return out[i].Changes > out[j].Changes
		}
		return out[i].Path < out[j].Path
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []report.FileChurn{}
	}
	return out
}

// Dependencies builds the file-to-module graph from every file that imports
// something. Edges keep file order, then line order.
func Dependencies(files []report.FileRecord) report.DependencyGraph {
	g := report.DependencyGraph{
		Nodes:           []report.DependencyNode{},
		Edges:           []report.DependencyEdge{},
		ExternalModules: []string{},
	}
	modules := make(map[string]struct{})
	for _, f := range files {
		if len(f.Imports) == 0 {
			continue
		}
		g.Nodes = append(g.Nodes, report.DependencyNode{
			ID:          f.Path,
			Label:       path.Base(f.Path),
			Language:    f.Language,
			ImportCount: len(f.Imports),
		})
		for _, imp := range f.Imports {
			g.Edges = append(g.Edges, report.DependencyEdge{From: f.Path, To: imp.Module, Mechanism: imp.Mechanism})
			modules[imp.Module] = struct{}{}
		}
	}
	for m := range modules {
		g.ExternalModules = append(g.ExternalModules, m)
	}
	sort.Strings(g.ExternalModules)
	return g
}
