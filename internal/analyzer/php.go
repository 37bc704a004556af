// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

// PHP handles classes, interfaces, traits, enums and functions.
func PHP() *Analyzer {
	return &Analyzer{
		name:      "php",
		languages: []string{"php"},
		comments:  []string{"#", "//", "/*", "*"},
		symbols: []symbolRule{
			{
				re:    rx(`^(?:(?:abstract|final|readonly)\s+)*class\s+(\w+)(?:\s+extends\s+([\w\\]+))?(?:\s+implements\s+([\w\\, ]+?))?\s*\{?\s*$`),
				kind:  report.KindClass,
				name:  1,
				bases: []int{2, 3},
			},
			{re: rx(`^interface\s+(\w+)(?:\s+extends\s+([\w\\, ]+?))?\s*\{?\s*$`), kind: report.KindInterface, name: 1, bases: []int{2}},
			{re: rx(`^trait\s+(\w+)`), kind: report.KindModule, name: 1},
			{re: rx(`^enum\s+(\w+)`), kind: report.KindEnum, name: 1},
			{re: rx(`^(?:(?:public|private|protected|static|abstract|final)\s+)*function\s+&?(\w+)\s*\(`), kind: report.KindFunction, name: 1},
		},
		imports: []importRule{
			{re: rx(`^use\s+(?:function\s+|const\s+)?\\?([\w\\]+)(?:\s+as\s+(\w+))?\s*;`), module: 1, alias: 2, mechanism: "use", topLevel: true},
			{re: rx(`^(require_once|require|include_once|include)\s*\(?\s*['"]([^'"]+)['"]`), mechGroup: 1, module: 2},
		},
	}
}
