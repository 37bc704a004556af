// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bartekus/omnilens/cmd/omnilens/internal/clierr"
	"github.com/bartekus/omnilens/internal/cache"
	"github.com/bartekus/omnilens/internal/config"
	"github.com/bartekus/omnilens/internal/history"
	"github.com/bartekus/omnilens/internal/pipeline"
	"github.com/bartekus/omnilens/internal/projection"
	"github.com/bartekus/omnilens/internal/projectroot"
	"github.com/bartekus/omnilens/internal/render"
	"github.com/bartekus/omnilens/internal/runner"
	"github.com/bartekus/omnilens/pkg/report"
)

// filterFlags are the history filters shared by analyze and diff.
type filterFlags struct {
	since         string
	until         string
	author        string
	includeMerges bool
	limit         int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.since, "since", "", `only commits after this date (YYYY-MM-DD, RFC3339, "today", "2 weeks ago")`)
	cmd.Flags().StringVar(&f.until, "until", "", "only commits before this date")
	cmd.Flags().StringVar(&f.author, "author", "", "only commits whose author name or email contains this text")
	cmd.Flags().BoolVar(&f.includeMerges, "include-merges", false, "include merge commits")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of commits (0 = unlimited)")
}

// options resolves the flags into miner options, falling back to cfg for
// flags that were not set.
func (f *filterFlags) options(cmd *cobra.Command, cfg config.Config, now time.Time) (history.Options, error) {
	since, err := history.ParseDate(f.since, now)
	if err != nil {
		return history.Options{}, err
	}
	until, err := history.ParseDate(f.until, now)
	if err != nil {
		return history.Options{}, err
	}
	opts := history.Options{
		Since:         since,
		Until:         until,
		Author:        f.author,
		IncludeMerges: cfg.Analysis.IncludeMerges,
		Limit:         cfg.Analysis.Limit,
	}
	if cmd.Flags().Changed("include-merges") {
		opts.IncludeMerges = f.includeMerges
	}
	if cmd.Flags().Changed("limit") {
		opts.Limit = f.limit
	}
	return opts, opts.Validate()
}

type analyzeFlags struct {
	filters      filterFlags
	ref          string
	allBranches  bool
	workers      int
	format       string
	output       string
	noGit        bool
	noCache      bool
	excludeDirs  []string
	excludeFiles []string
	commitsCSV   string
	symbolsCSV   string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a repository and print a report",
		Long: `Mine commit history and scan source files under path (default ".") and
render the resulting report.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runAnalyze(cmd, a, f, path)
		},
	}

	f.filters.register(cmd)
	cmd.Flags().StringVar(&f.ref, "ref", "", "branch, tag or commit to mine (default HEAD)")
	cmd.Flags().BoolVar(&f.allBranches, "all-branches", false, "mine every branch")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "file analysis workers (1 = sequential)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", fmt.Sprintf("output format %v", config.Formats))
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&f.noGit, "no-git", false, "skip history and scan files only")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the analysis cache")
	cmd.Flags().StringSliceVar(&f.excludeDirs, "exclude-dirs", nil, "directory patterns to skip (replaces the configured list)")
	cmd.Flags().StringSliceVar(&f.excludeFiles, "exclude-files", nil, "file name patterns to skip (replaces the configured list)")
	cmd.Flags().StringVar(&f.commitsCSV, "export-commits-csv", "", "also write the commit table as CSV to this file")
	cmd.Flags().StringVar(&f.symbolsCSV, "export-symbols-csv", "", "also write the symbol table as CSV to this file")
	return cmd
}

// config applies command-line overrides to a copy of base.
func (f *analyzeFlags) config(cmd *cobra.Command, base config.Config) (config.Config, error) {
	cfg := base
	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("output") {
		cfg.Output.Path = f.output
	}
	if changed("no-git") {
		cfg.Analysis.NoGit = f.noGit
	}
	if changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if changed("exclude-dirs") {
		cfg.Exclude.Dirs = f.excludeDirs
	}
	if changed("exclude-files") {
		cfg.Exclude.Files = f.excludeFiles
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, a *app, f *analyzeFlags, path string) error {
	started := time.Now()
	cfg, err := f.config(cmd, a.cfg)
	if err != nil {
		return clierr.Usage(err)
	}
	filters, err := f.filters.options(cmd, cfg, started)
	if err != nil {
		return exitError(err)
	}
	filters.Ref = f.ref
	filters.AllBranches = f.allBranches

	// State and cache live under the analyzed repository; a missing path is
	// reported by the pipeline without creating anything.
	root := projectroot.FindOr(path)
	var store *runner.StateStore
	if isDir(root) {
		store = runner.NewStateStore(filepath.Join(root, runner.DefaultDir))
	}

	opts := []pipeline.Option{pipeline.WithLogger(a.log)}
	if cfg.Cache.Enabled && !cfg.Analysis.NoGit && store != nil {
		c, err := openCache(root, cfg, a.log)
		if err != nil {
			a.log.WithError(err).Warn("analysis cache disabled")
		} else {
			defer func() { _ = c.Close() }()
			opts = append(opts, pipeline.WithCache(c))
		}
	}

	rep, err := pipeline.New(cfg, opts...).Run(cmd.Context(), pipeline.Request{
		Path:    path,
		Filters: filters,
		NoGit:   cfg.Analysis.NoGit,
	})
	last := runner.LastRun{
		Status:     runner.StatusPass,
		Command:    "analyze",
		Path:       path,
		StartedAt:  started.UTC(),
		DurationMS: time.Since(started).Milliseconds(),
		Output:     cfg.Output.Path,
	}
	if err != nil {
		last.Status = runner.StatusFail
		last.Error = err.Error()
		recordRun(store, last, a.log)
		return exitError(err)
	}
	last.RunID = rep.Metadata.RunID
	last.Path = rep.Metadata.Path
	last.Mode = string(rep.Metadata.Mode)
	last.Commits = len(rep.Commits)
	last.Files = len(rep.Files)
	last.Warnings = len(rep.Warnings)
	last.Cached = rep.Metadata.Cached

	if err := writeReport(cmd.OutOrStdout(), cfg, rep); err != nil {
		last.Status = runner.StatusFail
		last.Error = err.Error()
		recordRun(store, last, a.log)
		return err
	}
	if err := writeCSVExports(f, rep); err != nil {
		last.Status = runner.StatusFail
		last.Error = err.Error()
		recordRun(store, last, a.log)
		return err
	}
	recordRun(store, last, a.log)
	return nil
}

func openCache(root string, cfg config.Config, log logrus.FieldLogger) (*cache.Cache, error) {
	p := cfg.Cache.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return cache.Open(p, cfg.Cache.TTL, log)
}

func writeReport(stdout io.Writer, cfg config.Config, rep *report.Report) error {
	if cfg.Output.Path == "" {
		opts := render.Options{Color: stdout == io.Writer(os.Stdout) && !color.NoColor}
		return render.Report(stdout, cfg.Output.Format, rep, opts)
	}
	var buf bytes.Buffer
	if err := render.Report(&buf, cfg.Output.Format, rep, render.Options{}); err != nil {
		return err
	}
	if err := projection.AtomicWrite(cfg.Output.Path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "report written to %s\n", cfg.Output.Path)
	return nil
}

func writeCSVExports(f *analyzeFlags, rep *report.Report) error {
	exports := []struct {
		path  string
		write func(io.Writer) error
	}{
		{f.commitsCSV, func(w io.Writer) error { return render.CommitsCSV(w, rep.Commits) }},
		{f.symbolsCSV, func(w io.Writer) error { return render.SymbolsCSV(w, rep.Symbols) }},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		var buf bytes.Buffer
		if err := e.write(&buf); err != nil {
			return err
		}
		if err := projection.AtomicWrite(e.path, buf.Bytes()); err != nil {
			return fmt.Errorf("writing %s: %w", e.path, err)
		}
	}
	return nil
}

func recordRun(store *runner.StateStore, last runner.LastRun, log logrus.FieldLogger) {
	if store == nil {
		return
	}
	if err := store.WriteLastRun(last); err != nil {
		log.WithError(err).Warn("could not record run state")
	}
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
