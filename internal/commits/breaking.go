// SPDX-License-Identifier: AGPL-3.0-or-later

package commits

import (
	"regexp"
	"strings"

	"github.com/bartekus/omnilens/pkg/report"
)

var breakingAnnotation = regexp.MustCompile(`(?i)BREAKING[ -]CHANGE:`)

// DetectBreaking reports at most one breaking change for a commit. An
// explicit BREAKING CHANGE annotation wins over the subject marker because it
// carries a description.
func DetectBreaking(marker bool, message string) *report.BreakingChange {
	if loc := breakingAnnotation.FindStringIndex(message); loc != nil {
		return &report.BreakingChange{
			Type:        report.BreakingAnnotation,
			Description: annotationText(message[loc[1]:]),
		}
	}
	if marker {
		return &report.BreakingChange{Type: report.BreakingConventional}
	}
	return nil
}

// annotationText returns the text up to the next blank line.
func annotationText(rest string) string {
	rest = strings.ReplaceAll(rest, "\r\n", "\n")
	lines := strings.Split(rest, "\n")
	var kept []string
	for i, line := range lines {
		if i > 0 && strings.TrimSpace(line) == "" {
			break
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
