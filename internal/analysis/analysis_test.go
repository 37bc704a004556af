// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/omnilens/internal/analyzer"
	"github.com/bartekus/omnilens/internal/scanner"
	"github.com/bartekus/omnilens/pkg/report"
)

func TestAnalyzeFile(t *testing.T) {
	f := scanner.SourceFile{
		Path:     "app/service.py",
		Language: "python",
		Lines: scanner.SplitLines(`import os

class Service:
    def run(self, x):
        if x and os.path:
            return 1
        return 0

    def stop(self):
        pass
`),
	}

	rec := AnalyzeFile(analyzer.DefaultRegistry(), f)

	assert.Equal(t, "app/service.py", rec.Path)
	assert.Equal(t, "python", rec.Language)
	assert.Equal(t, 10, rec.Metrics.Lines)
	assert.Equal(t, 2, rec.Metrics.Functions)
	assert.Equal(t, 1, rec.Metrics.Classes)

	require.Len(t, rec.Symbols, 3)
	assert.Equal(t, "Service", rec.Symbols[0].Name)
	assert.Equal(t, 2, rec.Symbols[0].MethodCount)
	assert.Zero(t, rec.Symbols[0].Complexity)

	// run spans lines 4-8: one if and one and.
	assert.Equal(t, "run", rec.Symbols[1].Name)
	assert.Equal(t, report.KindMethod, rec.Symbols[1].Kind)
	assert.Equal(t, 3, rec.Symbols[1].Complexity)

	assert.Equal(t, "stop", rec.Symbols[2].Name)
	assert.Equal(t, 1, rec.Symbols[2].Complexity)

	require.Len(t, rec.Imports, 1)
	assert.Equal(t, "os", rec.Imports[0].Module)
}

func TestAnalyzeFileWithoutAnalyzer(t *testing.T) {
	f := scanner.SourceFile{
		Path:     "schema.sql",
		Language: "sql",
		Lines:    []string{"SELECT 1;", "-- note"},
	}

	rec := AnalyzeFile(analyzer.DefaultRegistry(), f)

	assert.Equal(t, 2, rec.Metrics.Lines)
	assert.Empty(t, rec.Symbols)
	assert.Empty(t, rec.Imports)
}

func TestAnalyzeEmptyFile(t *testing.T) {
	rec := AnalyzeFile(analyzer.DefaultRegistry(), scanner.SourceFile{Path: "empty.go", Language: "go"})

	assert.Equal(t, 0, rec.Metrics.Lines)
	assert.Equal(t, 0.0, rec.Metrics.ComplexityPerFunction)
	assert.Equal(t, 100.0, rec.Metrics.MaintainabilityIndex)
	assert.Empty(t, rec.Symbols)
}
