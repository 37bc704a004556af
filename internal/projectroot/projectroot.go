// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the repository that contains a path.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no ancestor carries a root marker.
var ErrNotFound = errors.New("project root not found")

// Markers identify a repository root, in lookup order.
var Markers = []string{".git", ".omnilens.yaml"}

// Find walks up from start and returns the first directory that contains
// one of Markers. start may be a file.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, m := range Markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNotFound, start)
		}
		dir = parent
	}
}

// FindOr returns the root containing start, or start itself when there is
// none.
func FindOr(start string) string {
	if root, err := Find(start); err == nil {
		return root
	}
	if abs, err := filepath.Abs(start); err == nil {
		return abs
	}
	return start
}
