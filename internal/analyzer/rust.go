// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

const rustVis = `(?:pub(?:\([^)]*\))?\s+)?`

// Rust handles structs, enums, traits, modules and impl blocks. Functions in
// an impl block become methods of the implemented type.
func Rust() *Analyzer {
	return &Analyzer{
		name:      "rust",
		languages: []string{"rust"},
		comments:  []string{"//", "/*", "*"},
		symbols: []symbolRule{
			{re: rx(`^` + rustVis + `struct\s+(\w+)`), kind: report.KindStruct, name: 1},
			{re: rx(`^` + rustVis + `enum\s+(\w+)`), kind: report.KindEnum, name: 1},
			{re: rx(`^` + rustVis + `(?:unsafe\s+)?trait\s+(\w+)(?:<[^{]*?>)?(?:\s*:\s*([^{]+?))?\s*(?:where\b[^{]*)?\{?\s*$`), kind: report.KindInterface, name: 1, bases: []int{2}},
			{re: rx(`^` + rustVis + `mod\s+(\w+)\s*\{`), kind: report.KindModule, name: 1},
			{re: rx(`^(?:unsafe\s+)?impl(?:<[^{]*?>)?\s+(?:!?[\w:]+(?:<[^{]*?>)?\s+for\s+)?(?:\w+::)*(\w+)`), name: 1, scope: true},
			{re: rx(`^` + rustVis + `(?:(?:const|async|unsafe|extern(?:\s+"[^"]*")?)\s+)*fn\s+(\w+)`), kind: report.KindFunction, name: 1},
		},
		imports: []importRule{
			{re: rx(`^` + rustVis + `use\s+(.+?)(?:\s+as\s+(\w+))?\s*;`), module: 1, alias: 2, mechanism: "use"},
			{re: rx(`^extern\s+crate\s+(\w+)(?:\s+as\s+(\w+))?`), module: 1, alias: 2, mechanism: "extern"},
		},
	}
}
