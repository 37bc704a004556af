// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"path"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludeDirs is a list of glob patterns matched against every path
	// segment. Matching is segment-aware: "vendor" excludes "vendor/foo" and
	// "pkg/vendor/bar", but not "vendor_stuff/foo".
	ExcludeDirs []string

	// ExcludeFiles is a list of glob patterns matched against the base name.
	ExcludeFiles []string

	// IncludeExtensions is a list of extensions to include (e.g., ".go").
	// If empty, all extensions are included.
	IncludeExtensions []string

	// SkipVendored drops paths enry recognises as vendored or generated
	// third-party code.
	SkipVendored bool

	// SkipHidden drops paths with a dot-prefixed directory segment.
	SkipHidden bool
}

// DefaultExcludeDirs returns the directories and artifacts skipped unless the
// caller supplies its own list.
func DefaultExcludeDirs() []string {
	return []string{
		".git", "__pycache__", "node_modules", "venv", ".venv",
		"build", "dist", ".tox", ".nox", ".eggs", "*.egg-info",
		".sass-cache", ".next", ".nuxt", ".output", ".cache",
		"coverage", ".nyc_output", "*.pyc", "*.pyo", "$py.class",
		".mypy_cache", ".pytest_cache", ".hypothesis",
		"vendor", "bower_components", ".idea", ".vscode",
		"*.swp", "*.swo", "*~", ".DS_Store", "Thumbs.db",
		"target", "Cargo.lock", "package-lock.json", "yarn.lock",
		".parcel-cache", ".netlify", ".vercel", ".turbo",
		"logs", "*.log", "*.tmp", "temp", "tmp",
		".omnilens",
	}
}

// DefaultExcludeFiles returns the file patterns skipped unless the caller
// supplies its own list.
func DefaultExcludeFiles() []string {
	return []string{
		"*.min.js", "*.min.css", "*.map", "*.log", "*.lock",
		".gitignore", ".gitattributes", ".editorconfig",
		"*.pem", "*.key", "*.crt", "secrets.py", "*.secret",
	}
}

// DefaultFilterOptions returns the default exclusions with vendored and
// hidden paths skipped.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		ExcludeDirs:  DefaultExcludeDirs(),
		ExcludeFiles: DefaultExcludeFiles(),
		SkipVendored: true,
		SkipHidden:   true,
	}
}

// FilterFiles applies the filter options to a list of slash-separated file
// paths. It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, p := range paths {
		if p == "" || shouldExclude(p, opts.ExcludeDirs) {
			continue
		}
		if opts.SkipHidden && hasHiddenDir(p) {
			continue
		}
		if matchAny(path.Base(p), opts.ExcludeFiles) {
			continue
		}
		if !shouldIncludeExtension(p, opts.IncludeExtensions) {
			continue
		}
		if opts.SkipVendored && enry.IsVendor(p) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Strings(filtered)
	return filtered
}

// shouldExclude returns true if any path segment matches an excluded pattern.
func shouldExclude(p string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	for _, part := range strings.Split(p, "/") {
		if matchAny(part, excludes) {
			return true
		}
	}
	return false
}

func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == name {
			return true
		}
		// Malformed patterns never match.
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func hasHiddenDir(p string) bool {
	parts := strings.Split(p, "/")
	for _, part := range parts[:len(parts)-1] {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// shouldIncludeExtension returns true if extensions is empty OR path matches one extension.
func shouldIncludeExtension(p string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}
