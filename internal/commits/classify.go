// SPDX-License-Identifier: AGPL-3.0-or-later

package commits

import (
	"sort"
	"strings"

	"github.com/bartekus/omnilens/pkg/report"
)

// categoryTable maps conventional type tokens and their synonyms onto the
// closed category set. Lookups are case-insensitive.
var categoryTable = map[string]report.Category{
	"feat":        report.CategoryFeat,
	"feature":     report.CategoryFeat,
	"features":    report.CategoryFeat,
	"fix":         report.CategoryBugfix,
	"bugfix":      report.CategoryBugfix,
	"bugfixes":    report.CategoryBugfix,
	"hotfix":      report.CategoryBugfix,
	"bug":         report.CategoryBugfix,
	"docs":        report.CategoryDocs,
	"doc":         report.CategoryDocs,
	"style":       report.CategoryStyle,
	"format":      report.CategoryStyle,
	"refactor":    report.CategoryRefactor,
	"refactoring": report.CategoryRefactor,
	"test":        report.CategoryTest,
	"tests":       report.CategoryTest,
	"testing":     report.CategoryTest,
	"chore":       report.CategoryChore,
	"deps":        report.CategoryChore,
	"release":     report.CategoryChore,
	"ci":          report.CategoryCI,
	"perf":        report.CategoryPerf,
	"performance": report.CategoryPerf,
	"build":       report.CategoryBuild,
}

// Classify maps a conventional type token to its category. Unknown tokens
// map to other.
func Classify(token string) report.Category {
	if c, ok := categoryTable[strings.ToLower(strings.TrimSpace(token))]; ok {
		return c
	}
	return report.CategoryOther
}

// Synonyms returns the tokens recognised for c, sorted.
func Synonyms(c report.Category) []string {
	var out []string
	for token, cat := range categoryTable {
		if cat == c {
			out = append(out, token)
		}
	}
	sort.Strings(out)
	return out
}
