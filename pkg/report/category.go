// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is the closed classification of a commit.
type Category string

const (
	CategoryFeat     Category = "feat"
	CategoryBugfix   Category = "bugfix"
	CategoryDocs     Category = "docs"
	CategoryStyle    Category = "style"
	CategoryRefactor Category = "refactor"
	CategoryTest     Category = "test"
	CategoryChore    Category = "chore"
	CategoryCI       Category = "ci"
	CategoryPerf     Category = "perf"
	CategoryBuild    Category = "build"
	CategoryOther    Category = "other"
)

// AllCategories lists every category in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryFeat,
		CategoryBugfix,
		CategoryDocs,
		CategoryStyle,
		CategoryRefactor,
		CategoryTest,
		CategoryChore,
		CategoryCI,
		CategoryPerf,
		CategoryBuild,
		CategoryOther,
	}
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryCount is one entry of a CategoryBreakdown.
type CategoryCount struct {
	Category Category
	Count    int
}

// CategoryBreakdown is an insertion-ordered category -> count mapping. It
// serializes as a JSON/YAML object whose keys keep the order of first
// occurrence.
type CategoryBreakdown []CategoryCount

// Add increments the count of c, appending it when first seen.
func (b *CategoryBreakdown) Add(c Category) {
	for i := range *b {
		if (*b)[i].Category == c {
			(*b)[i].Count++
			return
		}
	}
	*b = append(*b, CategoryCount{Category: c, Count: 1})
}

// Get returns the count recorded for c.
func (b CategoryBreakdown) Get(c Category) int {
	for _, entry := range b {
		if entry.Category == c {
			return entry.Count
		}
	}
	return 0
}

// Total sums all counts.
func (b CategoryBreakdown) Total() int {
	total := 0
	for _, entry := range b {
		total += entry.Count
	}
	return total
}

// MarshalJSON writes the breakdown as an ordered object.
func (b CategoryBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(entry.Category))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", entry.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the key order.
func (b *CategoryBreakdown) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*b = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category breakdown: expected object, got %v", tok)
	}

	out := CategoryBreakdown{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("category breakdown: unexpected key %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("category breakdown: count for %q: %w", key, err)
		}
		out = append(out, CategoryCount{Category: Category(key), Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*b = out
	return nil
}

// MarshalYAML writes the breakdown as an ordered mapping node.
func (b CategoryBreakdown) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range b {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(entry.Category)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", entry.Count)},
		)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered mapping node.
func (b *CategoryBreakdown) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("category breakdown: expected mapping, got kind %d", value.Kind)
	}
	out := CategoryBreakdown{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var count int
		if err := value.Content[i+1].Decode(&count); err != nil {
			return fmt.Errorf("category breakdown: count for %q: %w", value.Content[i].Value, err)
		}
		out = append(out, CategoryCount{Category: Category(value.Content[i].Value), Count: count})
	}
	*b = out
	return nil
}
