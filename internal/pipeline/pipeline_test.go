// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/omnilens/internal/cache"
	"github.com/bartekus/omnilens/internal/config"
	"github.com/bartekus/omnilens/internal/history"
	"github.com/bartekus/omnilens/pkg/report"
)

type fakeSource struct {
	byRef    map[string][]history.RawCommit
	head     string
	checkErr error
	mined    atomic.Int32
}

func (f *fakeSource) Check(context.Context, string) error { return f.checkErr }

func (f *fakeSource) Head(context.Context, string) (string, error) { return f.head, nil }

func (f *fakeSource) Commits(ctx context.Context, opts history.Options) ([]history.RawCommit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mined.Add(1)
	return f.byRef[opts.Ref], nil
}

func (f *fakeSource) factory() SourceFactory {
	return func(string, logrus.FieldLogger) Source { return f }
}

var day = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func raw(hash, subject string, at time.Time, files ...history.FileStat) history.RawCommit {
	return history.RawCommit{
		Hash:        hash,
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		Timestamp:   at,
		Subject:     subject,
		Message:     subject,
		Files:       files,
	}
}

func sampleHistory() *fakeSource {
	return &fakeSource{
		head: "c3",
		byRef: map[string][]history.RawCommit{
			"": {
				raw("c3", "feat(api)!: drop legacy endpoint", day.AddDate(0, 0, 10),
					history.FileStat{Path: "service.py", Insertions: 5, Deletions: 1}),
				raw("c2", "fix: handle nil", day.AddDate(0, 0, 3),
					history.FileStat{Path: "main.go", Insertions: 1, Deletions: 1}),
				raw("c1", "docs: readme", day),
			},
		},
	}
}

func sampleTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	createFile(t, dir, "service.py", "class Service:\n    def run(self):\n        pass\n\n    def stop(self):\n        pass\n")
	createFile(t, dir, "main.go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(1)\n}\n")
	createFile(t, dir, "blob.go", "package blob\x00\x00\x00")
	createFile(t, dir, "notes.txt", "not source\n")
	return dir
}

func testConfig(workers int) config.Config {
	cfg := config.Default()
	cfg.Analysis.Workers = workers
	cfg.Analysis.NoGit = false
	return cfg
}

func TestRunGitMode(t *testing.T) {
	dir := sampleTree(t)
	src := sampleHistory()
	p := New(testConfig(1), WithSource(src.factory()), WithClock(func() time.Time { return day }))

	rep, err := p.Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)

	assert.Equal(t, report.ModeGit, rep.Metadata.Mode)
	assert.Equal(t, "c3", rep.Metadata.Head)
	assert.NotEmpty(t, rep.Metadata.RunID)
	assert.Equal(t, 10, rep.Metadata.DurationDays)
	assert.Equal(t, day, rep.Metadata.FirstCommit)

	require.Len(t, rep.Commits, 3)
	assert.True(t, rep.Commits[0].IsBreaking)
	assert.Equal(t, report.CategoryFeat, rep.Commits[0].Category)
	assert.Equal(t, "api", rep.Commits[0].Scope)
	assert.Equal(t, 3, rep.Aggregate.Categories.Total())
	require.Len(t, rep.Aggregate.BreakingChanges, 1)
	assert.Equal(t, "c3", rep.Aggregate.BreakingChanges[0].Hash)

	var paths []string
	for _, f := range rep.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"main.go", "service.py"}, paths)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, "blob.go", rep.Warnings[0].Path)

	var service *report.SymbolRecord
	for i := range rep.Symbols {
		if rep.Symbols[i].Name == "Service" {
			service = &rep.Symbols[i]
		}
	}
	require.NotNil(t, service)
	assert.Equal(t, report.KindClass, service.Kind)
	assert.Equal(t, 2, service.MethodCount)

	require.Len(t, rep.Imports, 1)
	assert.Equal(t, "fmt", rep.Imports[0].Module)
	assert.Equal(t, 2, rep.Aggregate.TotalFiles)
}

func TestRunParallelMatchesSequential(t *testing.T) {
	dir := sampleTree(t)
	for i := 0; i < 20; i++ {
		createFile(t, dir, filepath.Join("pkg", string(rune('a'+i))+".py"), "def f():\n    if x:\n        return 1\n")
	}

	seq, err := New(testConfig(1), WithSource(sampleHistory().factory())).Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)
	par, err := New(testConfig(4), WithSource(sampleHistory().factory())).Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)

	assert.Equal(t, seq.Files, par.Files)
	assert.Equal(t, seq.Symbols, par.Symbols)
	assert.Equal(t, seq.Warnings, par.Warnings)
	assert.Equal(t, seq.Aggregate, par.Aggregate)
}

func TestRunFileScanMode(t *testing.T) {
	dir := sampleTree(t)
	src := sampleHistory()
	p := New(testConfig(2), WithSource(src.factory()))

	rep, err := p.Run(context.Background(), Request{Path: dir, NoGit: true})
	require.NoError(t, err)

	assert.Equal(t, report.ModeFileScan, rep.Metadata.Mode)
	assert.NotNil(t, rep.Commits)
	assert.Empty(t, rep.Commits)
	assert.Zero(t, rep.Aggregate.TechDebt.HealthScore)
	assert.Len(t, rep.Files, 2)
	assert.Zero(t, src.mined.Load())
}

func TestRunRejectsInvertedRange(t *testing.T) {
	src := sampleHistory()
	p := New(testConfig(1), WithSource(src.factory()))

	_, err := p.Run(context.Background(), Request{
		Path:    t.TempDir(),
		Filters: history.Options{Since: day, Until: day.AddDate(0, 0, -1)},
	})
	require.ErrorIs(t, err, history.ErrRange)
	assert.Zero(t, src.mined.Load())
}

func TestRunSourceUnavailable(t *testing.T) {
	p := New(testConfig(1), WithSource(sampleHistory().factory()))
	_, err := p.Run(context.Background(), Request{Path: filepath.Join(t.TempDir(), "missing")})
	require.ErrorIs(t, err, history.ErrSourceUnavailable)

	src := sampleHistory()
	src.checkErr = &history.SourceUnavailableError{Path: "x", Reason: "not a git repository"}
	p = New(testConfig(1), WithSource(src.factory()))
	_, err = p.Run(context.Background(), Request{Path: t.TempDir()})
	require.ErrorIs(t, err, history.ErrSourceUnavailable)
}

func TestRunCancelled(t *testing.T) {
	dir := sampleTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		for _, noGit := range []bool{false, true} {
			p := New(testConfig(workers), WithSource(sampleHistory().factory()))
			rep, err := p.Run(ctx, Request{Path: dir, NoGit: noGit})
			require.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, rep)
		}
	}
}

func TestRunUsesCache(t *testing.T) {
	dir := sampleTree(t)
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	src := sampleHistory()
	p := New(testConfig(1), WithSource(src.factory()), WithCache(c))

	first, err := p.Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)
	assert.False(t, first.Metadata.Cached)

	second, err := p.Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)
	assert.True(t, second.Metadata.Cached)
	assert.NotEqual(t, first.Metadata.RunID, second.Metadata.RunID)
	assert.Equal(t, first.Metadata.RunID, second.Metadata.CachedFrom)
	assert.Len(t, second.Commits, 3)
	assert.Equal(t, int32(1), src.mined.Load())

	// Different filters miss.
	_, err = p.Run(context.Background(), Request{Path: dir, Filters: history.Options{Author: "ada"}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.mined.Load())
}

func TestRunCacheMissesAfterWorkingTreeEdit(t *testing.T) {
	dir := sampleTree(t)
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	src := sampleHistory()
	p := New(testConfig(1), WithSource(src.factory()), WithCache(c))

	first, err := p.Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)
	require.Len(t, first.Files, 2)
	assert.Len(t, first.Symbols, 4)

	// Same HEAD, edited tree.
	createFile(t, dir, "service.py", "class Service:\n    def run(self):\n        pass\n\n    def stop(self):\n        pass\n\n    def reset(self):\n        pass\n")
	createFile(t, dir, "extra.py", "def helper():\n    pass\n")

	second, err := p.Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)
	assert.False(t, second.Metadata.Cached)
	assert.Equal(t, int32(2), src.mined.Load())
	assert.Len(t, second.Files, 3)
	assert.Len(t, second.Symbols, 6)

	third, err := p.Run(context.Background(), Request{Path: dir})
	require.NoError(t, err)
	assert.True(t, third.Metadata.Cached)
	assert.Equal(t, second.Metadata.RunID, third.Metadata.CachedFrom)
	assert.Len(t, third.Symbols, 6)
	assert.Equal(t, int32(2), src.mined.Load())
}

func TestCompare(t *testing.T) {
	src := &fakeSource{byRef: map[string][]history.RawCommit{
		"main":    {raw("b", "fix: b", day), raw("a", "feat: a", day)},
		"feature": {raw("c", "feat: c", day), raw("b", "fix: b", day), raw("a", "feat: a", day)},
	}}
	p := New(testConfig(1), WithSource(src.factory()))

	diff, err := p.Compare(context.Background(), t.TempDir(), "main", "feature", history.Options{})
	require.NoError(t, err)

	hashes := func(cs []report.CommitRecord) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.Hash)
		}
		return out
	}
	assert.Equal(t, []string{"b", "a"}, hashes(diff.Common))
	assert.Empty(t, diff.OnlyInFirst)
	assert.Equal(t, []string{"c"}, hashes(diff.OnlyInSecond))
}

func createFile(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}
