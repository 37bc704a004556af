// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

const swiftModifiers = `(?:(?:public|private|fileprivate|internal|open|final|static|class|override|mutating|nonmutating|convenience|required|indirect|dynamic|lazy|weak|nonisolated|@\w+(?:\([^)]*\))?)\s+)*`

// Swift handles classes, structs, enums, protocols, actors and extensions.
// Functions inside an extension are methods of the extended type.
func Swift() *Analyzer {
	return &Analyzer{
		name:      "swift",
		languages: []string{"swift"},
		comments:  []string{"//", "/*", "*"},
		symbols: []symbolRule{
			{
				re:        rx(`^` + swiftModifiers + `(class|struct|enum|protocol|actor)\s+(\w+)(?:<[^>{]*>)?(?:\s*:\s*([^{]+?))?\s*(?:where\b[^{]*)?\{?\s*$`),
				kindGroup: 1,
				kinds: map[string]report.SymbolKind{
					"class":    report.KindClass,
					"actor":    report.KindClass,
					"struct":   report.KindStruct,
					"enum":     report.KindEnum,
					"protocol": report.KindInterface,
				},
				name:  2,
				bases: []int{3},
			},
			{re: rx(`^` + swiftModifiers + `extension\s+(?:\w+\.)*(\w+)`), name: 1, scope: true},
			{re: rx(`^` + swiftModifiers + `func\s+(\w+)`), kind: report.KindFunction, name: 1},
		},
		imports: []importRule{
			{re: rx(`^(?:@\w+\s+)*import\s+(?:(?:typealias|struct|class|enum|protocol|let|var|func)\s+)?([\w.]+)`), module: 1, mechanism: "import"},
		},
	}
}
