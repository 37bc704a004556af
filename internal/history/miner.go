// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history mines commit history from a git repository by streaming
// `git log` output.
package history

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bartekus/omnilens/internal/logging"
)

const (
	recordSep = '\x1e'
	fieldSep  = "\x1f"
	bodyEnd   = "\x1d"

	// %B is the raw body (subject + message). The body terminator separates it
	// from the numstat block git prints after each record.
	prettyFormat = "--pretty=format:%x1e%H%x1f%an%x1f%ae%x1f%aI%x1f%B%x1d"

	maxRecordBytes = 64 * 1024 * 1024
)

// FileStat is one numstat line of a commit.
type FileStat struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// RawCommit is one git log entry before parsing.
type RawCommit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time
	Subject     string
	Message     string
	Files       []FileStat
}

// Source yields raw commits most-recent-first.
type Source interface {
	Commits(ctx context.Context, opts Options) ([]RawCommit, error)
}

// Miner reads history from a repository on disk. It never writes to it.
type Miner struct {
	repoPath string
	log      logrus.FieldLogger
}

// NewMiner creates a miner for the repository at repoPath.
func NewMiner(repoPath string, log logrus.FieldLogger) *Miner {
	if log == nil {
		log = logging.Discard()
	}
	return &Miner{repoPath: repoPath, log: log.WithField("component", "history")}
}

// Check verifies that git is installed, that the path is a repository and
// that ref (when set) resolves to a commit.
func (m *Miner) Check(ctx context.Context, ref string) error {
	if _, err := exec.LookPath("git"); err != nil {
		return &SourceUnavailableError{Path: m.repoPath, Ref: ref, Reason: "git executable not found", Err: err}
	}
	if info, err := os.Stat(m.repoPath); err != nil || !info.IsDir() {
		return &SourceUnavailableError{Path: m.repoPath, Ref: ref, Reason: "path is not a directory", Err: err}
	}
	if _, err := m.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return &SourceUnavailableError{Path: m.repoPath, Ref: ref, Reason: "not a git repository", Err: err}
	}
	if ref != "" {
		if _, err := m.resolve(ctx, ref); err != nil {
			return &SourceUnavailableError{Path: m.repoPath, Ref: ref, Reason: "ref cannot be resolved", Err: err}
		}
	}
	return nil
}

// Head returns the commit hash ref resolves to, HEAD when ref is empty. An
// empty repository yields an empty hash.
func (m *Miner) Head(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		hash, err := m.resolve(ctx, "HEAD")
		if err != nil {
			// rev-parse --verify --quiet exits 1 only when HEAD has no commit yet.
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
				return "", nil
			}
			return "", fmt.Errorf("resolving HEAD: %w", err)
		}
		return hash, nil
	}
	hash, err := m.resolve(ctx, ref)
	if err != nil {
		return "", &SourceUnavailableError{Path: m.repoPath, Ref: ref, Reason: "ref cannot be resolved", Err: err}
	}
	return hash, nil
}

// Commits collects the stream into a slice.
func (m *Miner) Commits(ctx context.Context, opts Options) ([]RawCommit, error) {
	var out []RawCommit
	err := m.Stream(ctx, opts, func(c RawCommit) error {
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// errStop ends a stream early without reporting an error.
var errStop = errors.New("stop")

// Stream runs git log and calls fn for every matching commit in log order
// (most recent first). Returning an error from fn aborts the stream.
func (m *Miner) Stream(ctx context.Context, opts Options, fn func(RawCommit) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Check(ctx, opts.Ref); err != nil {
		return err
	}
	if opts.Ref == "" && !opts.AllBranches {
		if _, err := m.resolve(ctx, "HEAD"); err != nil {
			m.log.Debug("repository has no commits")
			return nil
		}
	}

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	args := logArgs(opts)
	m.log.WithField("args", strings.Join(args, " ")).Debug("running git")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = m.repoPath
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("git log: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return &SourceUnavailableError{Path: m.repoPath, Ref: opts.Ref, Reason: "cannot start git", Err: err}
	}

	author := strings.ToLower(opts.Author)
	count := 0
	var fnErr error
	scanErr := func() error {
		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
		sc.Split(splitRecords)
		for sc.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, ok, err := parseRecord(sc.Text())
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if author != "" &&
				!strings.Contains(strings.ToLower(c.AuthorName), author) &&
				!strings.Contains(strings.ToLower(c.AuthorEmail), author) {
				continue
			}
			if err := fn(c); err != nil {
				fnErr = err
				return err
			}
			count++
			if opts.Limit > 0 && count >= opts.Limit {
				return errStop
			}
		}
		return sc.Err()
	}()

	if scanErr != nil {
		// Stop git before waiting so it does not block on a full pipe.
		cancel()
		_ = cmd.Wait()
		switch {
		case errors.Is(scanErr, errStop):
			return nil
		case fnErr != nil:
			return fnErr
		case parent.Err() != nil:
			return parent.Err()
		}
		return fmt.Errorf("reading git log: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		if parent.Err() != nil {
			return parent.Err()
		}
		return fmt.Errorf("git log failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	m.log.WithField("commits", count).Debug("history mined")
	return nil
}

func logArgs(opts Options) []string {
	args := []string{"log", prettyFormat, "--numstat", "--no-color", "--no-renames"}
	if !opts.IncludeMerges {
		args = append(args, "--no-merges")
	}
	if !opts.Since.IsZero() {
		args = append(args, "--since="+opts.Since.Format(time.RFC3339))
	}
	if !opts.Until.IsZero() {
		args = append(args, "--until="+opts.Until.Format(time.RFC3339))
	}
	if opts.AllBranches {
		args = append(args, "--all")
	}
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	return append(args, "--")
}

func (m *Miner) resolve(ctx context.Context, ref string) (string, error) {
	out, err := m.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (m *Miner) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = m.repoPath
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w (stderr: %s)", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

func splitRecords(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, recordSep); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// parseRecord decodes one record. ok is false for the empty chunk before the
// first separator.
func parseRecord(record string) (RawCommit, bool, error) {
	if strings.TrimSpace(record) == "" {
		return RawCommit{}, false, nil
	}

	header, numstat, _ := strings.Cut(record, bodyEnd)
	fields := strings.SplitN(header, fieldSep, 5)
	if len(fields) != 5 {
		return RawCommit{}, false, fmt.Errorf("malformed git log record: %d fields", len(fields))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[3]))
	if err != nil {
		return RawCommit{}, false, fmt.Errorf("commit %s: bad date %q: %w", fields[0], fields[3], err)
	}

	message := strings.TrimRight(fields[4], "\n")
	subject, _, _ := strings.Cut(message, "\n")

	return RawCommit{
		Hash:        strings.TrimSpace(fields[0]),
		AuthorName:  fields[1],
		AuthorEmail: fields[2],
		Timestamp:   ts,
		Subject:     strings.TrimSpace(subject),
		Message:     message,
		Files:       parseNumstat(numstat),
	}, true, nil
}

func parseNumstat(block string) []FileStat {
	var files []FileStat
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		if parts[0] == "-" && parts[1] == "-" {
			files = append(files, FileStat{Path: parts[2], Binary: true})
			continue
		}
		ins, err1 := strconv.Atoi(parts[0])
		del, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		files = append(files, FileStat{Path: parts[2], Insertions: ins, Deletions: del})
	}
	return files
}
