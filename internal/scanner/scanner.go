// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner lists the analyzable files of a working tree and reads
// them as lines.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/src-d/enry/v2"

	"github.com/bartekus/omnilens/internal/lang"
	"github.com/bartekus/omnilens/internal/logging"
)

// DefaultMaxFileBytes bounds the size of a file the scanner will read.
const DefaultMaxFileBytes = 2 << 20

// ErrFileUnreadable marks a file that was skipped.
var ErrFileUnreadable = errors.New("file unreadable")

// FileUnreadableError reports one file the scanner could not turn into
// lines. It is recoverable: callers record it and move on.
type FileUnreadableError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FileUnreadableError) Error() string {
	msg := fmt.Sprintf("cannot read %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FileUnreadableError) Unwrap() error { return e.Err }

func (e *FileUnreadableError) Is(target error) bool { return target == ErrFileUnreadable }

// SourceFile is one readable file of a known language.
type SourceFile struct {
	Path     string
	Language string
	Lines    []string
}

// Options configures a Scanner.
type Options struct {
	Filter FilterOptions
	// UseGit lists tracked files with git when the root is a repository.
	UseGit       bool
	MaxFileBytes int64
}

// Scanner provides access to the analyzable files under a root.
type Scanner struct {
	root string
	opts Options
	log  logrus.FieldLogger

	mu           sync.Mutex
	trackedCache []string
}

// New creates a new Scanner for the given root.
func New(root string, opts Options, log logrus.FieldLogger) *Scanner {
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Scanner{
		root: root,
		opts: opts,
		log:  log.WithField("component", "scanner"),
	}
}

// TrackedFiles returns all files tracked by git, caching the result for the instance lifetime.
// It respects .gitignore implicitly by asking git.
func (s *Scanner) TrackedFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trackedCache != nil {
		return s.trackedCache, nil
	}

	// -z avoids quoting of unusual names.
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = s.root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	if len(out) == 0 {
		s.trackedCache = []string{}
		return s.trackedCache, nil
	}

	files := strings.Split(strings.TrimSuffix(string(out), "\x00"), "\x00")
	s.trackedCache = files
	return s.trackedCache, nil
}

// WalkFiles lists regular files under the root without consulting git.
// Excluded directories are pruned rather than descended.
func (s *Scanner) WalkFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.root {
				return err
			}
			s.log.WithError(err).WithField("path", p).Warn("skipping unreadable directory entry")
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if matchAny(name, s.opts.Filter.ExcludeDirs) || (s.opts.Filter.SkipHidden && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	return files, nil
}

// Files returns the sorted, filtered relative paths of files with a known
// language. Tracked files are used when git is enabled and the root is a
// repository; otherwise the tree is walked.
func (s *Scanner) Files(ctx context.Context) ([]string, error) {
	var (
		all []string
		err error
	)
	if s.opts.UseGit && s.isRepository(ctx) {
		all, err = s.TrackedFiles(ctx)
	} else {
		all, err = s.WalkFiles(ctx)
	}
	if err != nil {
		return nil, err
	}

	var known []string
	for _, p := range FilterFiles(all, s.opts.Filter) {
		if lang.Known(p) {
			known = append(known, p)
		}
	}
	s.log.WithField("files", len(known)).Debug("listed source files")
	return known, nil
}

func (s *Scanner) isRepository(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = s.root
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// Read loads one relative path as lines. Oversized, binary, non-UTF-8 and
// unopenable files yield a *FileUnreadableError.
func (s *Scanner) Read(rel string) (SourceFile, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil {
		return SourceFile{}, &FileUnreadableError{Path: rel, Reason: "stat failed", Err: err}
	}
	if !info.Mode().IsRegular() {
		return SourceFile{}, &FileUnreadableError{Path: rel, Reason: "not a regular file"}
	}
	if info.Size() > s.opts.MaxFileBytes {
		return SourceFile{}, &FileUnreadableError{
			Path:   rel,
			Reason: fmt.Sprintf("size %d exceeds limit %d", info.Size(), s.opts.MaxFileBytes),
		}
	}

	data, err := os.ReadFile(full) //nolint:gosec // path comes from the listed tree
	if err != nil {
		return SourceFile{}, &FileUnreadableError{Path: rel, Reason: "read failed", Err: err}
	}
	if enry.IsBinary(data) {
		return SourceFile{}, &FileUnreadableError{Path: rel, Reason: "binary content"}
	}
	if !utf8.Valid(data) {
		return SourceFile{}, &FileUnreadableError{Path: rel, Reason: "invalid UTF-8"}
	}

	return SourceFile{
		Path:     rel,
		Language: lang.Detect(rel),
		Lines:    SplitLines(string(data)),
	}, nil
}

// Walk reads every listed file in path order and hands it to fn. Files that
// cannot be read are passed to skip and the walk continues; an error from fn
// or a cancelled context stops it.
func (s *Scanner) Walk(ctx context.Context, fn func(SourceFile) error, skip func(path string, err error)) error {
	files, err := s.Files(ctx)
	if err != nil {
		return err
	}
	for _, p := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := s.Read(p)
		if err != nil {
			if errors.Is(err, ErrFileUnreadable) {
				s.log.WithError(err).WithField("path", p).Warn("skipping file")
				if skip != nil {
					skip(p, err)
				}
				continue
			}
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// SplitLines splits content on newlines, dropping carriage returns and the
// empty element after a trailing newline.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
