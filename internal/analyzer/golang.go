// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

// Go handles Go sources. Methods name their receiver type explicitly, so
// they are attributed without nesting.
func Go() *Analyzer {
	return &Analyzer{
		name:      "go",
		languages: []string{"go"},
		comments:  []string{"//", "/*", "*"},
		symbols: []symbolRule{
			{re: rx(`^type\s+(\w+)(?:\[[^\]]*\])?\s+struct\b`), kind: report.KindStruct, name: 1},
			{re: rx(`^type\s+(\w+)(?:\[[^\]]*\])?\s+interface\b`), kind: report.KindInterface, name: 1},
			{re: rx(`^func\s+\(\s*(?:\w+\s+)?\*?\s*(\w+)(?:\[[^\]]*\])?\s*\)\s*(\w+)\s*[\[(]`), kind: report.KindMethod, name: 2, parent: 1},
			{re: rx(`^func\s+(\w+)\s*[\[(]`), kind: report.KindFunction, name: 1},
		},
		imports: []importRule{
			{re: rx(`^import\s+(?:(\w+|\.|_)\s+)?"([^"]+)"`), alias: 1, module: 2, mechanism: "import"},
		},
		block: &importBlock{
			open:  rx(`^import\s*\($`),
			close: rx(`^\)`),
			entry: importRule{re: rx(`^(?:(\w+|\.|_)\s+)?"([^"]+)"`), alias: 1, module: 2, mechanism: "import"},
		},
	}
}
