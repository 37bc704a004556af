// SPDX-License-Identifier: AGPL-3.0-or-later

package projectroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "pkg", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	file := filepath.Join(nested, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package deep\n"), 0o644))

	for _, start := range []string{root, nested, file} {
		got, err := Find(start)
		require.NoError(t, err, start)
		assert.Equal(t, root, got, start)
	}
}

func TestFindConfigMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".omnilens.yaml"), []byte("analysis:\n  workers: 2\n"), 0o644))
	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))

	got, err := Find(sub)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindNearestWins(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(outer, ".git"), 0o755))
	inner := filepath.Join(outer, "vendor", "lib")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, ".git"), 0o755))

	got, err := Find(filepath.Join(inner))
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestFindOrFallsBack(t *testing.T) {
	dir := t.TempDir()
	// The temp dir normally has no marker above it; when it does, FindOr
	// returns that ancestor instead.
	got := FindOr(dir)
	if _, err := Find(dir); err != nil {
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, dir, got)
	} else {
		assert.NotEmpty(t, got)
	}
}
