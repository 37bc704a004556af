// SPDX-License-Identifier: AGPL-3.0-or-later

package commithealth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bartekus/omnilens/pkg/report"
)

func commitsOf(categories ...report.Category) []report.CommitRecord {
	out := make([]report.CommitRecord, 0, len(categories))
	for _, c := range categories {
		out = append(out, report.CommitRecord{Category: c})
	}
	return out
}

func TestCompute(t *testing.T) {
	td := Compute(commitsOf(
		report.CategoryFeat,
		report.CategoryBugfix,
		report.CategoryChore,
		report.CategoryDocs,
		report.CategoryOther,
	), nil)

	assert.Equal(t, 5, td.TotalCommits)
	assert.Equal(t, 2, td.FeatureCommits)
	assert.Equal(t, 1, td.DebtCommits)
	assert.Equal(t, 1, td.MaintenanceCommits)
	assert.InDelta(t, 40.0, td.FeaturePercentage, 1e-9)
	assert.InDelta(t, 20.0, td.DebtPercentage, 1e-9)
	assert.InDelta(t, 20.0, td.MaintenancePercentage, 1e-9)
	assert.InDelta(t, 90.0, td.HealthScore, 1e-9)
	assert.Equal(t, 100.0, td.ComplexityScore)
	assert.Equal(t, DefaultMaintainability, td.MaintainabilityIndex)
}

func TestComputeEmpty(t *testing.T) {
	td := Compute(nil, nil)

	assert.Zero(t, td.TotalCommits)
	assert.Zero(t, td.DebtPercentage)
	assert.Zero(t, td.FeaturePercentage)
	assert.Zero(t, td.MaintenancePercentage)
	assert.Zero(t, td.HealthScore)
}

func TestHealthScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		commits []report.CommitRecord
		want    float64
	}{
		{name: "only features caps at 100", commits: commitsOf(report.CategoryFeat, report.CategoryFeat), want: 100},
		{name: "no features keeps the bias", commits: commitsOf(report.CategoryChore, report.CategoryStyle), want: 50},
		{name: "half features", commits: commitsOf(report.CategoryFeat, report.CategoryCI, report.CategoryPerf, report.CategoryBugfix), want: 100},
		{name: "one in four", commits: commitsOf(report.CategoryFeat, report.CategoryCI, report.CategoryPerf, report.CategoryBuild), want: 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := Compute(tt.commits, nil)
			assert.InDelta(t, tt.want, td.HealthScore, 1e-9)
			assert.GreaterOrEqual(t, td.HealthScore, 0.0)
			assert.LessOrEqual(t, td.HealthScore, 100.0)
		})
	}
}

func TestComputeFileScores(t *testing.T) {
	files := []report.FileMetrics{
		{Complexity: 10, MaintainabilityIndex: 80},
		{Complexity: 30, MaintainabilityIndex: 60},
	}
	td := Compute(nil, files)
	assert.InDelta(t, 80.0, td.ComplexityScore, 1e-9)
	assert.InDelta(t, 70.0, td.MaintainabilityIndex, 1e-9)

	td = Compute(nil, []report.FileMetrics{{Complexity: 250}})
	assert.Zero(t, td.ComplexityScore)
}

func TestGroupOf(t *testing.T) {
	for _, c := range report.AllCategories() {
		g := GroupOf(c)
		assert.Contains(t, []Group{GroupDebt, GroupFeature, GroupMaintenance, GroupNeutral}, g, c)
	}
	assert.Equal(t, GroupNeutral, GroupOf(report.CategoryPerf))
	assert.Equal(t, GroupDebt, GroupOf(report.CategoryCI))
}

func TestRate(t *testing.T) {
	assert.Equal(t, RatingGood, Rate(100))
	assert.Equal(t, RatingGood, Rate(75))
	assert.Equal(t, RatingFair, Rate(50))
	assert.Equal(t, RatingPoor, Rate(0))
}
