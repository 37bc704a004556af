// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analyzer extracts declarations and import edges from source lines
// with ordered, per-language pattern rules. It never parses, resolves or
// executes code: every result is a line-anchored heuristic match.
package analyzer

import (
	"sort"

	"github.com/bartekus/omnilens/pkg/report"
)

// LanguageAnalyzer extracts symbols and imports for one family of languages.
type LanguageAnalyzer interface {
	// Name identifies the variant, e.g. "python-like".
	Name() string
	// Languages lists the language identifiers the variant handles.
	Languages() []string
	ExtractSymbols(path, language string, lines []string) []report.SymbolRecord
	ExtractImports(path, language string, lines []string) []report.ImportRecord
}

// Registry maps language identifiers to analyzers.
type Registry struct {
	byLanguage map[string]LanguageAnalyzer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byLanguage: make(map[string]LanguageAnalyzer)}
}

// DefaultRegistry registers every built-in variant.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []LanguageAnalyzer{
		CLike(),
		Go(),
		Rust(),
		JVM(),
		CSharp(),
		JSTypeScript(),
		PythonLike(),
		Ruby(),
		PHP(),
		Swift(),
		Elixir(),
	} {
		r.Register(a)
	}
	return r
}

// Register binds a to every language it declares, replacing earlier
// bindings.
func (r *Registry) Register(a LanguageAnalyzer) {
	for _, l := range a.Languages() {
		r.byLanguage[l] = a
	}
}

// Lookup returns the analyzer for language.
func (r *Registry) Lookup(language string) (LanguageAnalyzer, bool) {
	a, ok := r.byLanguage[language]
	return a, ok
}

// Languages returns every registered language, sorted.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.byLanguage))
	for l := range r.byLanguage {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
