// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis turns one source file into a FileRecord: metrics from the
// complexity analyzer plus symbols and imports from the language analyzer
// registered for its language.
package analysis

import (
	"github.com/bartekus/omnilens/internal/analyzer"
	"github.com/bartekus/omnilens/internal/complexity"
	"github.com/bartekus/omnilens/internal/scanner"
	"github.com/bartekus/omnilens/pkg/report"
)

// AnalyzeFile analyzes f. Languages without an analyzer still get metrics.
// The result shares no state with f or reg.
func AnalyzeFile(reg *analyzer.Registry, f scanner.SourceFile) report.FileRecord {
	rec := report.FileRecord{
		Path:     f.Path,
		Language: f.Language,
		Metrics:  complexity.Analyze(f.Path, f.Language, f.Lines),
	}

	a, ok := reg.Lookup(f.Language)
	if !ok {
		return rec
	}
	rec.Symbols = a.ExtractSymbols(f.Path, f.Language, f.Lines)
	rec.Imports = a.ExtractImports(f.Path, f.Language, f.Lines)
	scoreCallables(rec.Symbols, f.Lines)
	return rec
}

// scoreCallables sets the complexity of each function or method to that of
// the lines from its declaration up to the next declaration.
func scoreCallables(symbols []report.SymbolRecord, lines []string) {
	for i := range symbols {
		if !symbols[i].Kind.IsCallable() {
			continue
		}
		start := symbols[i].LineNumber - 1
		end := len(lines)
		for j := i + 1; j < len(symbols); j++ {
			if symbols[j].LineNumber > symbols[i].LineNumber {
				end = symbols[j].LineNumber - 1
				break
			}
		}
		symbols[i].Complexity = complexity.Block(lines, start, end)
	}
}
