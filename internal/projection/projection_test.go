// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "report.md")

	require.NoError(t, AtomicWrite(target, []byte("first")))
	require.NoError(t, AtomicWrite(target, []byte("second")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"b": 2, "a": 1, "c": 3}))
	assert.Empty(t, SortedKeys(map[string]bool{}))
}

func TestRenderTable(t *testing.T) {
	got := RenderTable([]string{"file", "note"}, [][]string{
		{"a.go", "x|y"},
		{"b.go", "line\nbreak"},
	})
	want := "| file | note |\n" +
		"| --- | --- |\n" +
		"| a.go | x\\|y |\n" +
		"| b.go | line break |\n"
	assert.Equal(t, want, got)
}

func TestRenderListAndHeader(t *testing.T) {
	assert.Equal(t, "- one\n- two\n", RenderList([]string{"one", "two"}))
	assert.Empty(t, RenderList(nil))
	assert.Equal(t, "## Authors\n\n", RenderHeader(2, "Authors"))
	assert.Equal(t, "`fmt`", Code("fmt"))
}
