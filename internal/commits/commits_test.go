// SPDX-License-Identifier: AGPL-3.0-or-later

package commits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/omnilens/internal/history"
	"github.com/bartekus/omnilens/pkg/report"
)

func TestParseSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    Subject
	}{
		{
			name:    "type scope breaking",
			subject: "feat(api)!: drop legacy endpoint",
			want:    Subject{Type: "feat", Scope: "api", Breaking: true, Description: "drop legacy endpoint", Conventional: true},
		},
		{
			name:    "type only",
			subject: "docs: update readme",
			want:    Subject{Type: "docs", Description: "update readme", Conventional: true},
		},
		{
			name:    "extra colons stay in description",
			subject: "fix(parser): handle a: b: c",
			want:    Subject{Type: "fix", Scope: "parser", Description: "handle a: b: c", Conventional: true},
		},
		{
			name:    "hyphenated type",
			subject: "bug-fix: thing",
			want:    Subject{Type: "bug-fix", Description: "thing", Conventional: true},
		},
		{
			name:    "breaking without scope",
			subject: "refactor!: rename all the things",
			want:    Subject{Type: "refactor", Breaking: true, Description: "rename all the things", Conventional: true},
		},
		{
			name:    "free form",
			subject: "Merge branch 'main' into dev",
			want:    Subject{Description: "Merge branch 'main' into dev"},
		},
		{
			name:    "empty",
			subject: "",
			want:    Subject{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSubject(tt.subject))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]report.Category{
		"feat":        report.CategoryFeat,
		"Feature":     report.CategoryFeat,
		"FEATURES":    report.CategoryFeat,
		"fix":         report.CategoryBugfix,
		"hotfix":      report.CategoryBugfix,
		"bug":         report.CategoryBugfix,
		"bugfixes":    report.CategoryBugfix,
		"doc":         report.CategoryDocs,
		"format":      report.CategoryStyle,
		"refactoring": report.CategoryRefactor,
		"testing":     report.CategoryTest,
		"deps":        report.CategoryChore,
		"release":     report.CategoryChore,
		"ci":          report.CategoryCI,
		"performance": report.CategoryPerf,
		"build":       report.CategoryBuild,
		"wip":         report.CategoryOther,
		"":            report.CategoryOther,
	}
	for token, want := range tests {
		assert.Equal(t, want, Classify(token), "token %q", token)
	}
}

func TestClassifyAlwaysInClosedSet(t *testing.T) {
	for _, token := range []string{"feat", "x", "💥", "FIX", "chore", "other"} {
		assert.True(t, Classify(token).Valid(), token)
	}
}

func TestSynonyms(t *testing.T) {
	assert.Equal(t, []string{"bug", "bugfix", "bugfixes", "fix", "hotfix"}, Synonyms(report.CategoryBugfix))
	assert.Empty(t, Synonyms(report.CategoryOther))
}

func TestDetectBreaking(t *testing.T) {
	t.Run("annotation with trailing paragraph", func(t *testing.T) {
		got := DetectBreaking(false, "BREAKING CHANGE: removes v1 auth header\n\nOther text")
		require.NotNil(t, got)
		assert.Equal(t, report.BreakingAnnotation, got.Type)
		assert.Equal(t, "removes v1 auth header", got.Description)
	})

	t.Run("hyphenated lowercase annotation", func(t *testing.T) {
		got := DetectBreaking(false, "feat: x\n\nbreaking-change: config moved\nto a new file\n\nfooter")
		require.NotNil(t, got)
		assert.Equal(t, "config moved\nto a new file", got.Description)
	})

	t.Run("marker only", func(t *testing.T) {
		got := DetectBreaking(true, "feat(api)!: drop legacy endpoint")
		require.NotNil(t, got)
		assert.Equal(t, report.BreakingConventional, got.Type)
		assert.Empty(t, got.Description)
	})

	t.Run("annotation wins over marker", func(t *testing.T) {
		got := DetectBreaking(true, "feat!: x\n\nBREAKING CHANGE: y")
		require.NotNil(t, got)
		assert.Equal(t, report.BreakingAnnotation, got.Type)
	})

	t.Run("none", func(t *testing.T) {
		assert.Nil(t, DetectBreaking(false, "feat: nothing breaks"))
	})

	t.Run("idempotent", func(t *testing.T) {
		msg := "fix: a\n\nBREAKING CHANGE: b"
		assert.Equal(t, DetectBreaking(false, msg), DetectBreaking(false, msg))
	})
}

func TestParse(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	raw := history.RawCommit{
		Hash:        "deadbeef",
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		Timestamp:   ts,
		Subject:     "feat(api)!: drop legacy endpoint",
		Message:     "feat(api)!: drop legacy endpoint",
		Files: []history.FileStat{
			{Path: "api/v1.go", Insertions: 2, Deletions: 40},
			{Path: "api/v2.go", Insertions: 10, Deletions: 1},
			{Path: "logo.png", Binary: true},
		},
	}

	rec := Parse(raw)
	assert.Equal(t, report.CategoryFeat, rec.Category)
	assert.Equal(t, "feat", rec.Type)
	assert.Equal(t, "api", rec.Scope)
	assert.Equal(t, "drop legacy endpoint", rec.Description)
	assert.True(t, rec.IsBreaking)
	require.NotNil(t, rec.Breaking)
	assert.Equal(t, report.BreakingConventional, rec.Breaking.Type)
	assert.Equal(t, 12, rec.Insertions)
	assert.Equal(t, 41, rec.Deletions)
	assert.Equal(t, 3, rec.FilesChanged)
	assert.True(t, rec.Files[2].Binary)
	assert.Equal(t, ts, rec.Timestamp)
}

func TestParseUnconventional(t *testing.T) {
	rec := Parse(history.RawCommit{Hash: "1", Message: "Initial import\n\nlots of files"})
	assert.Equal(t, report.CategoryOther, rec.Category)
	assert.Empty(t, rec.Scope)
	assert.Empty(t, rec.Type)
	assert.Equal(t, "Initial import", rec.Subject)
	assert.Equal(t, "Initial import", rec.Description)
	assert.False(t, rec.IsBreaking)
}

func TestParseAnnotationOnUnconventionalSubject(t *testing.T) {
	rec := Parse(history.RawCommit{Hash: "1", Subject: "Rework auth", Message: "Rework auth\n\nBREAKING CHANGE: removes v1 auth header\n\nOther text"})
	assert.Equal(t, report.CategoryOther, rec.Category)
	assert.True(t, rec.IsBreaking)
	assert.Equal(t, "removes v1 auth header", rec.BreakingDescription)
}

func TestParseAllKeepsOrder(t *testing.T) {
	recs := ParseAll([]history.RawCommit{{Hash: "b", Subject: "docs: x"}, {Hash: "a", Subject: "feat: y"}})
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].Hash)
	assert.Equal(t, report.CategoryDocs, recs[0].Category)
	assert.Equal(t, report.CategoryFeat, recs[1].Category)
}
