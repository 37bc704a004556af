// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

const csModifiers = `(?:(?:public|private|protected|internal|static|virtual|override|abstract|async|sealed|extern|unsafe|new|partial|readonly|file|ref)\s+)`

// CSharp handles C# type and member declarations.
func CSharp() *Analyzer {
	return &Analyzer{
		name:      "csharp",
		languages: []string{"csharp"},
		comments:  []string{"//", "/*", "*"},
		symbols: []symbolRule{
			{
				re:        rx(`^` + csModifiers + `*(class|interface|struct|enum|record)(?:\s+(?:class|struct))?\s+(\w+)(?:<[^>]*>)?(?:\s*\([^)]*\))?(?:\s*:\s*([^{;]+?))?\s*(?:where\b[^{]*)?[{;]?\s*$`),
				kindGroup: 1,
				kinds: map[string]report.SymbolKind{
					"class":     report.KindClass,
					"record":    report.KindClass,
					"interface": report.KindInterface,
					"struct":    report.KindStruct,
					"enum":      report.KindEnum,
				},
				name:  2,
				bases: []int{3},
			},
			{
				re:     rx(`^` + csModifiers + `*(?:[\w.\[\]?]+(?:<[^()]*>)?[\[\]?]*\s+)(\w+)\s*(?:<[^()]*>)?\s*\(`),
				kind:   report.KindFunction,
				name:   1,
				inType: true,
			},
			{re: rx(`^` + csModifiers + `+(\w+)\s*\(`), kind: report.KindFunction, name: 1, inType: true},
		},
		imports: []importRule{
			{re: rx(`^(?:global\s+)?using\s+(?:static\s+)?(\w+)\s*=\s*([\w.<>,\s]+?)\s*;`), alias: 1, module: 2, mechanism: "using"},
			{re: rx(`^(?:global\s+)?using\s+(?:static\s+)?([\w.]+)\s*;`), module: 1, mechanism: "using"},
		},
	}
}
