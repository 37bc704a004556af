// SPDX-License-Identifier: AGPL-3.0-or-later

// Package complexity estimates line counts, cyclomatic complexity and a
// maintainability index from raw source text. It is a token-density
// heuristic: comment stripping is language agnostic and decision tokens are
// counted wherever they appear in the stripped body, strings included.
package complexity

import (
	"math"
	"regexp"
	"strings"

	"github.com/bartekus/omnilens/pkg/report"
)

var (
	hashComment  = regexp.MustCompile(`(?m)#.*$`)
	slashComment = regexp.MustCompile(`(?m)//.*$`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

	decisionWords = regexp.MustCompile(`(?i)\b(?:if|elseif|else|for|while|do|case|catch|and|or)\b`)

	functionKeywords = regexp.MustCompile(`\b(?:function|def|func|fn|method)\b`)
	classKeywords    = regexp.MustCompile(`\b(?:class|interface|struct)\b`)
)

var decisionSymbols = []string{"?", "&&", "||"}

// StripComments removes #-line, //-line and /* */ block comments.
func StripComments(code string) string {
	code = hashComment.ReplaceAllString(code, "")
	code = slashComment.ReplaceAllString(code, "")
	return blockComment.ReplaceAllString(code, "")
}

// Cyclomatic returns 1 plus the number of decision tokens in code. Callers
// pass comment-stripped text.
func Cyclomatic(code string) int {
	n := 1 + len(decisionWords.FindAllStringIndex(code, -1))
	for _, sym := range decisionSymbols {
		n += strings.Count(code, sym)
	}
	return n
}

// IsCommentLine reports whether a line consists only of a comment.
func IsCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(t, "#"), strings.HasPrefix(t, "//"), strings.HasPrefix(t, "*"):
		return true
	case strings.HasPrefix(t, "/*") && strings.HasSuffix(t, "*/"):
		return true
	}
	return false
}

// MaintainabilityIndex is the simplified index scaled to [0,100]. loc counts
// non-comment lines; comments are subtracted again to obtain the source line
// estimate, matching the historical formula. An empty body scores 100.
func MaintainabilityIndex(loc, complexity, comments int) float64 {
	if loc == 0 {
		return 100
	}
	sloc := loc - comments
	if sloc < 1 {
		sloc = 1
	}
	cc := float64(complexity)
	mi := math.Max(0, 171-5.2*cc-0.23*cc-16.2*float64(sloc)/100)
	return math.Min(100, mi*100/171)
}

// Analyze computes the metrics of one file.
func Analyze(path, language string, lines []string) report.FileMetrics {
	body := strings.Join(lines, "\n")
	stripped := StripComments(body)

	comments := 0
	for _, line := range lines {
		if IsCommentLine(line) {
			comments++
		}
	}

	effective := 0
	for _, line := range strings.Split(stripped, "\n") {
		if strings.TrimSpace(line) != "" {
			effective++
		}
	}
	if len(lines) == 0 {
		effective = 0
	}

	functions := len(functionKeywords.FindAllStringIndex(body, -1))
	classes := len(classKeywords.FindAllStringIndex(body, -1))
	cc := Cyclomatic(stripped)

	perFunction := 0.0
	if functions > 0 {
		perFunction = float64(cc) / float64(functions)
	}

	return report.FileMetrics{
		FilePath:              path,
		Language:              language,
		Lines:                 len(lines),
		EffectiveLines:        effective,
		CommentLines:          comments,
		Functions:             functions,
		Classes:               classes,
		Complexity:            cc,
		ComplexityPerFunction: perFunction,
		MaintainabilityIndex:  MaintainabilityIndex(len(lines)-comments, cc, comments),
	}
}

// Block returns the complexity of a line range [start, end) of lines,
// 0-based, used for per-symbol estimates.
func Block(lines []string, start, end int) int {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return 1
	}
	return Cyclomatic(StripComments(strings.Join(lines[start:end], "\n")))
}
