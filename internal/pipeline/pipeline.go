// SPDX-License-Identifier: AGPL-3.0-or-later

/*
omnilens - repository intelligence for commit history and source trees.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package pipeline runs an analysis end to end: it mines and parses history,
// scans and analyzes the file tree, aggregates both and assembles a report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/omnilens/internal/analysis"
	"github.com/bartekus/omnilens/internal/analyzer"
	"github.com/bartekus/omnilens/internal/cache"
	"github.com/bartekus/omnilens/internal/commits"
	"github.com/bartekus/omnilens/internal/config"
	"github.com/bartekus/omnilens/internal/history"
	"github.com/bartekus/omnilens/internal/logging"
	"github.com/bartekus/omnilens/internal/metrics"
	"github.com/bartekus/omnilens/internal/scanner"
	"github.com/bartekus/omnilens/pkg/report"
)

// Source is a commit history the pipeline can verify and mine.
type Source interface {
	history.Source
	Check(ctx context.Context, ref string) error
	Head(ctx context.Context, ref string) (string, error)
}

// SourceFactory opens the history of the repository at path.
type SourceFactory func(path string, log logrus.FieldLogger) Source

// GitSource is the default SourceFactory.
func GitSource(path string, log logrus.FieldLogger) Source {
	return history.NewMiner(path, log)
}

// Request selects what a run analyzes.
type Request struct {
	Path    string
	Filters history.Options
	// NoGit skips history and lists files by walking the tree.
	NoGit bool
}

// Pipeline holds the immutable dependencies of analysis runs. It is safe to
// call Run concurrently.
type Pipeline struct {
	cfg       config.Config
	log       logrus.FieldLogger
	registry  *analyzer.Registry
	cache     *cache.Cache
	newSource SourceFactory
	now       func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithCache enables result caching for git-mode runs.
func WithCache(c *cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithRegistry replaces the default analyzer registry.
func WithRegistry(r *analyzer.Registry) Option {
	return func(p *Pipeline) { p.registry = r }
}

// WithSource replaces the git history source.
func WithSource(f SourceFactory) Option {
	return func(p *Pipeline) { p.newSource = f }
}

// WithClock sets the time source used for relative metadata.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline for cfg.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		log:       logging.Discard(),
		registry:  analyzer.DefaultRegistry(),
		newSource: GitSource,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithField("component", "pipeline")
	return p
}

// Run analyzes req.Path. A cancelled run returns the context error and no
// partial report.
func (p *Pipeline) Run(ctx context.Context, req Request) (*report.Report, error) {
	start := p.now()
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	root, err := checkRoot(req.Path)
	if err != nil {
		return nil, err
	}

	mode := report.ModeGit
	if req.NoGit || p.cfg.Analysis.NoGit {
		mode = report.ModeFileScan
	}
	log := p.log.WithFields(logrus.Fields{"path": root, "mode": mode})

	var (
		src  Source
		head string
	)
	if mode == report.ModeGit {
		src = p.newSource(root, p.log)
		if err := src.Check(ctx, req.Filters.Ref); err != nil {
			return nil, err
		}
		if head, err = src.Head(ctx, req.Filters.Ref); err != nil {
			return nil, err
		}
	}

	scanOpts := p.cfg.ScannerOptions()
	if mode == report.ModeFileScan {
		scanOpts.UseGit = false
	}
	scan := scanner.New(root, scanOpts, p.log)

	key := ""
	if p.cache != nil && mode == report.ModeGit && head != "" {
		tree, err := treeFingerprint(ctx, scan, root)
		if err != nil {
			log.WithError(err).Warn("cannot fingerprint working tree, skipping cache")
		} else {
			key = p.cacheKey(root, head, tree, req.Filters)
			var cached report.Report
			hit, err := p.cache.Get(key, &cached)
			if err != nil {
				log.WithError(err).Warn("cache lookup failed")
			} else if hit {
				log.WithField("head", head).Debug("serving cached report")
				cached.Metadata.CachedFrom = cached.Metadata.RunID
				cached.Metadata.RunID = uuid.NewString()
				cached.Metadata.Cached = true
				return &cached, nil
			}
		}
	}

	records := []report.CommitRecord{}
	if mode == report.ModeGit {
		raws, err := src.Commits(ctx, req.Filters)
		if err != nil {
			return nil, err
		}
		records = commits.ParseAll(raws)
		log.WithField("commits", len(records)).Debug("history parsed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		files    []report.FileRecord
		warnings []report.Warning
	)
	if p.cfg.Analysis.Workers > 1 {
		files, warnings, err = p.analyzeParallel(ctx, scan, p.cfg.Analysis.Workers)
	} else {
		files, warnings, err = p.analyzeSequential(ctx, scan)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &report.Report{
		Metadata:  p.metadata(root, head, mode, req.Filters, records),
		Commits:   records,
		Files:     files,
		Symbols:   []report.SymbolRecord{},
		Imports:   []report.ImportRecord{},
		Aggregate: metrics.Aggregate(records, files),
		Warnings:  warnings,
	}
	for _, f := range files {
		rep.Symbols = append(rep.Symbols, f.Symbols...)
		rep.Imports = append(rep.Imports, f.Imports...)
	}

	if key != "" {
		if err := p.cache.Put(key, rep); err != nil {
			log.WithError(err).Warn("cache store failed")
		}
	}

	log.WithFields(logrus.Fields{
		"commits":  len(rep.Commits),
		"files":    len(rep.Files),
		"warnings": len(rep.Warnings),
		"elapsed":  p.now().Sub(start).String(),
	}).Info("analysis complete")
	return rep, nil
}

// Compare mines base and head with the same filters and partitions their
// commits by hash.
func (p *Pipeline) Compare(ctx context.Context, path, base, head string, filters history.Options) (report.CommitDiff, error) {
	if err := filters.Validate(); err != nil {
		return report.CommitDiff{}, err
	}
	root, err := checkRoot(path)
	if err != nil {
		return report.CommitDiff{}, err
	}
	src := p.newSource(root, p.log)

	mine := func(ref string) ([]report.CommitRecord, error) {
		if err := src.Check(ctx, ref); err != nil {
			return nil, err
		}
		opts := filters
		opts.Ref = ref
		raws, err := src.Commits(ctx, opts)
		if err != nil {
			return nil, err
		}
		return commits.ParseAll(raws), nil
	}

	a, err := mine(base)
	if err != nil {
		return report.CommitDiff{}, err
	}
	b, err := mine(head)
	if err != nil {
		return report.CommitDiff{}, err
	}
	p.log.WithFields(logrus.Fields{"base": base, "head": head}).Debug("compared refs")
	return report.DiffCommits(a, b), nil
}

func checkRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", &history.SourceUnavailableError{Path: root, Reason: "path is not a directory", Err: err}
	}
	return root, nil
}

func (p *Pipeline) analyzeSequential(ctx context.Context, scan *scanner.Scanner) ([]report.FileRecord, []report.Warning, error) {
	files := []report.FileRecord{}
	warnings := []report.Warning{}
	err := scan.Walk(ctx, func(f scanner.SourceFile) error {
		files = append(files, analysis.AnalyzeFile(p.registry, f))
		return nil
	}, func(path string, err error) {
		warnings = append(warnings, report.Warning{Path: path, Message: err.Error()})
	})
	if err != nil {
		return nil, nil, err
	}
	return files, warnings, nil
}

type fileResult struct {
	index   int
	record  report.FileRecord
	warning *report.Warning
}

// analyzeParallel reads and analyzes files on a fixed pool of workers. Each
// worker sends finished records to the collector, which restores path order.
func (p *Pipeline) analyzeParallel(ctx context.Context, scan *scanner.Scanner, workers int) ([]report.FileRecord, []report.Warning, error) {
	paths, err := scan.Files(ctx)
	if err != nil {
		return nil, nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan fileResult)

	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := fileResult{index: i}
				f, err := scan.Read(paths[i])
				switch {
				case errors.Is(err, scanner.ErrFileUnreadable):
					p.log.WithError(err).WithField("path", paths[i]).Warn("skipping file")
					res.warning = &report.Warning{Path: paths[i], Message: err.Error()}
				case err != nil:
					return err
				default:
					res.record = analysis.AnalyzeFile(p.registry, f)
				}
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]*fileResult, len(paths))
	for res := range results {
		collected[res.index] = &res
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	files := make([]report.FileRecord, 0, len(paths))
	warnings := []report.Warning{}
	for _, res := range collected {
		switch {
		case res == nil:
		case res.warning != nil:
			warnings = append(warnings, *res.warning)
		default:
			files = append(files, res.record)
		}
	}
	return files, warnings, nil
}

func (p *Pipeline) metadata(root, head string, mode report.Mode, filters history.Options, records []report.CommitRecord) report.Metadata {
	md := report.Metadata{
		RunID:      uuid.NewString(),
		Path:       root,
		Ref:        filters.Ref,
		Head:       head,
		Author:     filters.Author,
		Mode:       mode,
		AnalyzedAt: p.now().UTC(),
	}
	if !filters.Since.IsZero() {
		md.Since = filters.Since.Format(time.RFC3339)
	}
	if !filters.Until.IsZero() {
		md.Until = filters.Until.Format(time.RFC3339)
	}
	if len(records) > 0 {
		md.LastCommit = records[0].Timestamp
		md.FirstCommit = records[len(records)-1].Timestamp
		md.DurationDays = int(md.LastCommit.Sub(md.FirstCommit).Hours() / 24)
	}
	return md
}

// treeFingerprint digests the size and modification time of every file the
// scan will read. Uncommitted edits change it while HEAD stays put.
func treeFingerprint(ctx context.Context, scan *scanner.Scanner, root string) (string, error) {
	paths, err := scan.Files(ctx)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(paths))
	for _, rel := range paths {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			parts = append(parts, rel+":missing")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", rel, info.Size(), info.ModTime().UnixNano()))
	}
	return cache.Key(parts...), nil
}

func (p *Pipeline) cacheKey(root, head, tree string, f history.Options) string {
	return cache.Key(
		root, head, tree,
		f.Since.Format(time.RFC3339), f.Until.Format(time.RFC3339),
		strings.ToLower(f.Author), f.Ref,
		strconv.FormatBool(f.AllBranches), strconv.FormatBool(f.IncludeMerges),
		strconv.Itoa(f.Limit),
		strings.Join(p.cfg.Exclude.Dirs, ","), strings.Join(p.cfg.Exclude.Files, ","),
		strconv.FormatBool(p.cfg.Analysis.SkipVendored),
		strconv.FormatInt(p.cfg.Analysis.MaxFileBytes, 10),
	)
}
