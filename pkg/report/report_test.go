// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func commit(hash, author string, cat Category) CommitRecord {
	return CommitRecord{Hash: hash, AuthorName: author, Category: cat, Subject: "subject " + hash}
}

func TestCategoryBreakdownKeepsFirstOccurrenceOrder(t *testing.T) {
	var b CategoryBreakdown
	for _, c := range []Category{CategoryBugfix, CategoryFeat, CategoryBugfix, CategoryDocs, CategoryFeat} {
		b.Add(c)
	}

	require.Len(t, b, 3)
	assert.Equal(t, CategoryBugfix, b[0].Category)
	assert.Equal(t, 2, b.Get(CategoryBugfix))
	assert.Equal(t, 2, b.Get(CategoryFeat))
	assert.Equal(t, 0, b.Get(CategoryCI))
	assert.Equal(t, 5, b.Total())

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `{"bugfix":2,"feat":2,"docs":1}`, string(data))

	var decoded CategoryBreakdown
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestCategoryBreakdownYAML(t *testing.T) {
	b := CategoryBreakdown{{Category: CategoryTest, Count: 3}, {Category: CategoryChore, Count: 1}}

	data, err := yaml.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, "test: 3\nchore: 1\n", string(data))

	var decoded CategoryBreakdown
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestEmptyBreakdownMarshalsAsObject(t *testing.T) {
	data, err := json.Marshal(AggregateReport{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"categories":{}`)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("fix").Valid())
}

func TestSymbolKindIsContainer(t *testing.T) {
	assert.True(t, KindClass.IsContainer())
	assert.True(t, KindModule.IsContainer())
	assert.True(t, KindStruct.IsContainer())
	assert.False(t, KindInterface.IsContainer())
	assert.False(t, KindMethod.IsContainer())
	assert.True(t, KindMethod.IsCallable())
}

func TestCommitRows(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := CommitRows([]CommitRecord{{
		Hash:         "abc123",
		AuthorName:   "Ada",
		AuthorEmail:  "ada@example.com",
		Timestamp:    ts,
		Subject:      "feat(api)!: drop legacy endpoint",
		Category:     CategoryFeat,
		Scope:        "api",
		IsBreaking:   true,
		Insertions:   10,
		Deletions:    4,
		FilesChanged: 2,
	}})

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(CommitColumns()))
	assert.Equal(t, []string{
		"abc123", "Ada", "ada@example.com", "2024-03-01T12:00:00Z",
		"feat(api)!: drop legacy endpoint", "feat", "api", "true", "10", "4", "2",
	}, rows[0])
}

func TestSymbolRows(t *testing.T) {
	rows := SymbolRows([]SymbolRecord{{
		Name:        "Server",
		FilePath:    "srv.py",
		LineNumber:  3,
		Kind:        KindClass,
		Language:    "python",
		Bases:       []string{"Base", "Mixin"},
		MethodCount: 2,
	}})

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(SymbolColumns()))
	assert.Equal(t, "Base;Mixin", rows[0][6])
	assert.Equal(t, "2", rows[0][9])
}

func TestIndex(t *testing.T) {
	r := &Report{Commits: []CommitRecord{
		commit("a", "zoe", CategoryFeat),
		commit("b", "ada", CategoryBugfix),
		commit("c", "zoe", CategoryFeat),
		commit("d", "bob", CategoryDocs),
		commit("e", "ada", CategoryFeat),
	}}
	idx := NewIndex(r)

	assert.Equal(t, []Category{CategoryFeat, CategoryBugfix, CategoryDocs}, idx.Categories())
	assert.Equal(t, 3, idx.CategoryCount(CategoryFeat))
	assert.Equal(t, 0, idx.CategoryCount(CategoryCI))

	feats := idx.ByCategory(CategoryFeat)
	require.Len(t, feats, 3)
	assert.Equal(t, "a", feats[0].Hash)
	assert.Equal(t, "e", feats[2].Hash)

	assert.Equal(t, []AuthorCount{
		{Name: "ada", Commits: 2},
		{Name: "zoe", Commits: 2},
		{Name: "bob", Commits: 1},
	}, idx.Authors())
	assert.Len(t, idx.ByAuthor("zoe"), 2)
	assert.Empty(t, idx.ByAuthor("nobody"))
}

func TestIndexNilReport(t *testing.T) {
	idx := NewIndex(nil)
	assert.Empty(t, idx.Categories())
	assert.Empty(t, idx.Authors())
}

func TestDiffCommits(t *testing.T) {
	a := []CommitRecord{commit("1", "x", CategoryFeat), commit("2", "x", CategoryFeat), commit("3", "x", CategoryFeat)}
	b := []CommitRecord{commit("4", "x", CategoryFeat), commit("3", "x", CategoryFeat), commit("1", "x", CategoryFeat), commit("5", "x", CategoryFeat)}

	diff := DiffCommits(a, b)
	assert.Equal(t, []string{"1", "3"}, hashes(diff.Common))
	assert.Equal(t, []string{"2"}, hashes(diff.OnlyInFirst))
	assert.Equal(t, []string{"4", "5"}, hashes(diff.OnlyInSecond))
}

func TestDiffCommitsIdentical(t *testing.T) {
	a := []CommitRecord{commit("1", "x", CategoryFeat), commit("2", "y", CategoryDocs)}

	diff := DiffCommits(a, a)
	assert.Equal(t, a, diff.Common)
	assert.Empty(t, diff.OnlyInFirst)
	assert.Empty(t, diff.OnlyInSecond)
}

func TestReportJSONFieldNames(t *testing.T) {
	r := Report{
		Metadata: Metadata{RunID: "run", Mode: ModeGit},
		Commits:  []CommitRecord{{Hash: "h", Category: CategoryFeat, Breaking: &BreakingChange{Type: BreakingConventional}}},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	out := string(data)
	for _, field := range []string{`"metadata"`, `"run_id"`, `"author_name"`, `"is_breaking"`, `"conventional_breaking"`, `"aggregate"`, `"warnings"`} {
		assert.True(t, strings.Contains(out, field), "missing %s", field)
	}
}

func hashes(commits []CommitRecord) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Hash)
	}
	return out
}
