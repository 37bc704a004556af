// SPDX-License-Identifier: AGPL-3.0-or-later

/*
omnilens - repository intelligence for commit history and source trees.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commithealth derives tech-debt shares and the health score from
// classified commits and file metrics.
//
// The health score is min(100, feature% + 50). The flat +50 keeps a
// repository without feature work from scoring 0.
package commithealth

import (
	"math"

	"github.com/bartekus/omnilens/pkg/report"
)

// DefaultMaintainability is reported when no files were analyzed.
const DefaultMaintainability = 75.0

// Group buckets a category for tech-debt accounting.
type Group string

const (
	GroupDebt        Group = "debt"
	GroupFeature     Group = "feature"
	GroupMaintenance Group = "maintenance"
	GroupNeutral     Group = "neutral"
)

// GroupOf returns the tech-debt group of c.
func GroupOf(c report.Category) Group {
	switch c {
	case report.CategoryChore, report.CategoryRefactor, report.CategoryStyle, report.CategoryCI:
		return GroupDebt
	case report.CategoryFeat, report.CategoryBugfix:
		return GroupFeature
	case report.CategoryDocs, report.CategoryTest:
		return GroupMaintenance
	default:
		return GroupNeutral
	}
}

// Compute summarises commits and files. Empty input is valid and yields
// zero shares and a zero health score.
func Compute(commits []report.CommitRecord, files []report.FileMetrics) report.TechDebt {
	td := report.TechDebt{
		TotalCommits:         len(commits),
		ComplexityScore:      100,
		MaintainabilityIndex: DefaultMaintainability,
	}

	for _, c := range commits {
		switch GroupOf(c.Category) {
		case GroupDebt:
			td.DebtCommits++
		case GroupFeature:
			td.FeatureCommits++
		case GroupMaintenance:
			td.MaintenanceCommits++
		}
	}

	if td.TotalCommits > 0 {
		total := float64(td.TotalCommits)
		td.DebtPercentage = float64(td.DebtCommits) / total * 100
		td.FeaturePercentage = float64(td.FeatureCommits) / total * 100
		td.MaintenancePercentage = float64(td.MaintenanceCommits) / total * 100
		td.HealthScore = clamp(math.Min(100, td.FeaturePercentage+50))
	}

	if len(files) > 0 {
		var complexity, mi float64
		for _, f := range files {
			complexity += float64(f.Complexity)
			mi += f.MaintainabilityIndex
		}
		n := float64(len(files))
		td.ComplexityScore = math.Max(0, 100-complexity/n)
		td.MaintainabilityIndex = mi / n
	}

	return td
}

// Rating buckets a health score for display.
type Rating string

const (
	RatingGood Rating = "good"
	RatingFair Rating = "fair"
	RatingPoor Rating = "poor"
)

// Rate returns the rating of a health score.
func Rate(score float64) Rating {
	switch {
	case score >= 75:
		return RatingGood
	case score >= 50:
		return RatingFair
	default:
		return RatingPoor
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
