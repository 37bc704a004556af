// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/omnilens/pkg/report"
)

func fixtureCommits() []report.CommitRecord {
	return []report.CommitRecord{
		{
			Hash: "c3", AuthorName: "Ada", Category: report.CategoryFeat, Subject: "feat!: drop v1",
			IsBreaking: true, Breaking: &report.BreakingChange{Type: report.BreakingConventional},
			Insertions: 10, Deletions: 2, FilesChanged: 2,
			Files: []report.FileChange{{Path: "api.go", Insertions: 8, Deletions: 2}, {Path: "README.md", Insertions: 2}},
		},
		{
			Hash: "c2", AuthorName: "Bob", Category: report.CategoryDocs, Subject: "docs: readme",
			Insertions: 5, FilesChanged: 1,
			Files: []report.FileChange{{Path: "README.md", Insertions: 5}},
		},
		{
			Hash: "c1", AuthorName: "Ada", Category: report.CategoryFeat, Subject: "feat: api",
			Insertions: 20, FilesChanged: 1,
			Files: []report.FileChange{{Path: "api.go", Insertions: 20}},
		},
		{
			Hash: "c0", AuthorName: "Cy", Category: report.CategoryChore, Subject: "chore: init",
			Insertions: 1, FilesChanged: 1,
			Files: []report.FileChange{{Path: "go.mod", Insertions: 1}},
		},
	}
}

func fixtureFiles() []report.FileRecord {
	return []report.FileRecord{
		{
			Path: "api.go", Language: "go",
			Metrics: report.FileMetrics{Lines: 30, EffectiveLines: 25, Complexity: 6, MaintainabilityIndex: 70},
			Imports: []report.ImportRecord{
				{Module: "fmt", Mechanism: "import", LineNumber: 3},
				{Module: "net/http", Mechanism: "import", LineNumber: 4},
			},
		},
		{
			Path: "tools/gen.py", Language: "python",
			Metrics: report.FileMetrics{Lines: 10, EffectiveLines: 8, Complexity: 2, MaintainabilityIndex: 90},
			Imports: []report.ImportRecord{{Module: "fmt", Mechanism: "import", LineNumber: 1}},
		},
		{
			Path: "util.go", Language: "go",
			Metrics: report.FileMetrics{Lines: 5, EffectiveLines: 4, Complexity: 1, MaintainabilityIndex: 95},
		},
	}
}

func TestAggregate(t *testing.T) {
	commits := fixtureCommits()
	agg := Aggregate(commits, fixtureFiles())

	assert.Equal(t, report.CategoryBreakdown{
		{Category: report.CategoryFeat, Count: 2},
		{Category: report.CategoryDocs, Count: 1},
		{Category: report.CategoryChore, Count: 1},
	}, agg.Categories)
	assert.Equal(t, len(commits), agg.Categories.Total())
	assert.Equal(t, 4, agg.TotalCommits)

	assert.Equal(t, report.AuthorStats{Commits: 2, Insertions: 30, Deletions: 2, FilesChanged: 3}, agg.Authors["Ada"])
	assert.Equal(t, report.AuthorStats{Commits: 1, Insertions: 5, FilesChanged: 1}, agg.Authors["Bob"])

	require.Len(t, agg.BreakingChanges, 1)
	assert.Equal(t, report.BreakingEntry{Hash: "c3", Subject: "feat!: drop v1", Type: report.BreakingConventional}, agg.BreakingChanges[0])

	assert.Equal(t, 3, agg.TotalFiles)
	assert.Equal(t, 45, agg.TotalLOC)
	assert.Equal(t, 37, agg.TotalEffectiveLOC)
	assert.Equal(t, 9, agg.TotalComplexity)
	assert.InDelta(t, 3.0, agg.AverageComplexity, 1e-9)
	assert.Equal(t, map[string]int{"go": 2, "python": 1}, agg.Languages)

	assert.InDelta(t, 100.0, agg.TechDebt.HealthScore, 1e-9)
	assert.InDelta(t, 97.0, agg.TechDebt.ComplexityScore, 1e-9)
	assert.InDelta(t, 85.0, agg.TechDebt.MaintainabilityIndex, 1e-9)
	assert.Equal(t, 2, agg.BusFactor)
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil, nil)

	assert.Empty(t, agg.Categories)
	assert.Empty(t, agg.Authors)
	assert.NotNil(t, agg.BreakingChanges)
	assert.Zero(t, agg.TotalFiles)
	assert.Zero(t, agg.AverageComplexity)
	assert.Zero(t, agg.TechDebt.HealthScore)
	assert.Zero(t, agg.BusFactor)
	assert.NotNil(t, agg.Hotspots)
	assert.NotNil(t, agg.Dependencies.Nodes)
}

func TestOwnership(t *testing.T) {
	own := Ownership(fixtureCommits())

	require.Len(t, own, 3)
	assert.Equal(t, []string{"README.md", "api.go", "go.mod"}, []string{own[0].Path, own[1].Path, own[2].Path})

	readme := own[0]
	assert.Equal(t, 2, readme.Commits)
	assert.Equal(t, 2, readme.Authors)
	// Ties resolve by name.
	assert.Equal(t, "Ada", readme.TopAuthor)
	assert.InDelta(t, 0.5, readme.TopShare, 1e-9)
	assert.Equal(t, 2, readme.BusFactor)

	api := own[1]
	assert.Equal(t, 2, api.Commits)
	assert.Equal(t, "Ada", api.TopAuthor)
	assert.InDelta(t, 1.0, api.TopShare, 1e-9)
	assert.Equal(t, 1, api.BusFactor)
}

func TestBusFactor(t *testing.T) {
	mk := func(authors ...string) []report.CommitRecord {
		var out []report.CommitRecord
		for _, a := range authors {
			out = append(out, report.CommitRecord{AuthorName: a})
		}
		return out
	}

	assert.Equal(t, 0, BusFactor(nil))
	assert.Equal(t, 1, BusFactor(mk("a")))
	assert.Equal(t, 2, BusFactor(mk("a", "b")))
	assert.Equal(t, 1, BusFactor(mk("a", "a", "b")))
	assert.Equal(t, 3, BusFactor(mk("a", "b", "c", "d")))
	assert.Equal(t, 3, BusFactor(mk("a", "b", "c", "d", "e")))
}

func TestChurnAndHotspots(t *testing.T) {
	churn := Churn(fixtureCommits())

	assert.Equal(t, []report.FileChurn{
		{Path: "README.md", Commits: 2, Insertions: 7, Changes: 7},
		{Path: "api.go", Commits: 2, Insertions: 28, Deletions: 2, Changes: 30},
		{Path: "go.mod", Commits: 1, Insertions: 1, Changes: 1},
	}, churn)

	hot := Hotspots(churn, 2)
	assert.Equal(t, []string{"api.go", "README.md"}, []string{hot[0].Path, hot[1].Path})

	tied := Hotspots([]report.FileChurn{{Path: "b", Changes: 3}, {Path: "a", Changes: 3}}, 10)
	assert.Equal(t, "a", tied[0].Path)
}

func TestDependencies(t *testing.T) {
	g := Dependencies(fixtureFiles())

	assert.Equal(t, []report.DependencyNode{
		{ID: "api.go", Label: "api.go", Language: "go", ImportCount: 2},
		{ID: "tools/gen.py", Label: "gen.py", Language: "python", ImportCount: 1},
	}, g.Nodes)
	assert.Equal(t, []report.DependencyEdge{
		{From: "api.go", To: "fmt", Mechanism: "import"},
		{From: "api.go", To: "net/http", Mechanism: "import"},
		{From: "tools/gen.py", To: "fmt", Mechanism: "import"},
	}, g.Edges)
	assert.Equal(t, []string{"fmt", "net/http"}, g.ExternalModules)
}
