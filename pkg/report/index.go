// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import "sort"

// AuthorCount pairs an author with the number of commits attributed to them.
type AuthorCount struct {
	Name    string
	Commits int
}

// Index gives random access over the commits of a report.
type Index struct {
	byCategory map[Category][]CommitRecord
	byAuthor   map[string][]CommitRecord
	categories []Category
	authors    []AuthorCount
}

// NewIndex builds an index over r's commits. Commit order within each
// bucket follows miner order.
func NewIndex(r *Report) *Index {
	idx := &Index{
		byCategory: make(map[Category][]CommitRecord),
		byAuthor:   make(map[string][]CommitRecord),
	}
	if r == nil {
		return idx
	}

	for _, c := range r.Commits {
		if _, seen := idx.byCategory[c.Category]; !seen {
			idx.categories = append(idx.categories, c.Category)
		}
		idx.byCategory[c.Category] = append(idx.byCategory[c.Category], c)
		idx.byAuthor[c.AuthorName] = append(idx.byAuthor[c.AuthorName], c)
	}

	for name, commits := range idx.byAuthor {
		idx.authors = append(idx.authors, AuthorCount{Name: name, Commits: len(commits)})
	}
	sort.Slice(idx.authors, func(i, j int) bool {
		if idx.authors[i].Commits != idx.authors[j].Commits {
			return idx.authors[i].Commits > idx.authors[j].Commits
		}
		return idx.authors[i].Name < idx.authors[j].Name
	})
	return idx
}

// ByCategory returns the commits classified as c.
func (i *Index) ByCategory(c Category) []CommitRecord {
	return i.byCategory[c]
}

// ByAuthor returns the commits by the named author.
func (i *Index) ByAuthor(name string) []CommitRecord {
	return i.byAuthor[name]
}

// Categories returns the categories present, in first-occurrence order.
func (i *Index) Categories() []Category {
	return i.categories
}

// Authors returns authors by commit count descending, then name.
func (i *Index) Authors() []AuthorCount {
	return i.authors
}

// CategoryCount returns the number of commits classified as c.
func (i *Index) CategoryCount(c Category) int {
	return len(i.byCategory[c])
}
