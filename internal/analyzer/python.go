// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

// PythonLike handles indentation-scoped Python sources.
func PythonLike() *Analyzer {
	return &Analyzer{
		name:      "python-like",
		languages: []string{"python"},
		comments:  []string{"#"},
		symbols: []symbolRule{
			{re: rx(`^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`), kind: report.KindClass, name: 1, bases: []int{2}},
			{re: rx(`^(?:async\s+)?def\s+(\w+)\s*[\[(]`), kind: report.KindFunction, name: 1},
		},
		imports: []importRule{
			{re: rx(`^from\s+(\.*[\w.]*)\s+import\s+\(?\s*\w+\s+as\s+(\w+)\s*\)?$`), module: 1, alias: 2, mechanism: "from"},
			{re: rx(`^from\s+(\.*[\w.]*)\s+import\s`), module: 1, mechanism: "from"},
			{re: rx(`^import\s+([\w.]+(?:\s+as\s+\w+)?(?:\s*,\s*[\w.]+(?:\s+as\s+\w+)?)*)`), module: 1, mechanism: "import", list: true},
		},
	}
}
