// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

var jvmKinds = map[string]report.SymbolKind{
	"class":      report.KindClass,
	"record":     report.KindClass,
	"interface":  report.KindInterface,
	"@interface": report.KindInterface,
	"enum":       report.KindEnum,
	"trait":      report.KindInterface,
	"object":     report.KindModule,
}

// JVM handles Java, Kotlin, Scala and Groovy.
func JVM() *Analyzer {
	return &Analyzer{
		name:      "jvm",
		languages: []string{"java", "kotlin", "kotlin-script", "scala", "groovy"},
		comments:  []string{"//", "/*", "*"},
		symbols: []symbolRule{
			// Java and Groovy type declarations.
			{
				re:        rx(`^(?:(?:public|private|protected|abstract|final|static|sealed|non-sealed|strictfp)\s+)*(class|interface|@interface|enum|record)\s+(\w+)(?:<[^{]*?>)?(?:\s*\([^)]*\))?(?:\s+extends\s+([^{]+?))?(?:\s+implements\s+([^{]+?))?(?:\s+permits\s+[^{]+?)?\s*\{?\s*$`),
				kindGroup: 1,
				kinds:     jvmKinds,
				name:      2,
				bases:     []int{3, 4},
			},
			// Kotlin classes, interfaces and objects.
			{
				re:        rx(`^(?:(?:public|private|internal|protected|open|abstract|sealed|data|inline|value|enum|annotation|inner|companion)\s+)*(class|interface|object)\s+(\w+)(?:<[^{(]*?>)?(?:\s*(?:private|internal|protected)?\s*(?:constructor\s*)?\([^)]*\))?(?:\s*:\s*([^{]+?))?\s*\{?\s*$`),
				kindGroup: 1,
				kinds:     map[string]report.SymbolKind{"class": report.KindClass, "interface": report.KindInterface, "object": report.KindClass},
				name:      2,
				bases:     []int{3},
			},
			// Scala classes, traits and objects.
			{
				re:        rx(`^(?:(?:abstract|final|sealed|case|implicit|private|protected|override|lazy)\s+)*(class|trait|object)\s+(\w+)(?:\[[^\]]*\])?(?:\s*\([^)]*\))?(?:\s+extends\s+([\w.]+)(?:\[[^\]]*\])?(?:\([^)]*\))?)?((?:\s+with\s+[\w.]+(?:\[[^\]]*\])?)*)\s*\{?\s*$`),
				kindGroup: 1,
				kinds:     jvmKinds,
				name:      2,
				bases:     []int{3},
			},
			{re: rx(`^(?:(?:public|private|internal|protected|open|override|abstract|suspend|inline|operator|infix|tailrec|external|actual|expect)\s+)*fun\s+(?:<[^>]*>\s+)?(?:[\w.]+\.)?(\w+)\s*\(`), kind: report.KindFunction, name: 1},
			{re: rx(`^(?:(?:override|private|protected|final|implicit|lazy)\s+)*def\s+(\w+)`), kind: report.KindFunction, name: 1},
			{
				re:     rx(`^(?:(?:public|private|protected|static|final|abstract|synchronized|native|default|strictfp)\s+)*(?:<[^>]+>\s+)?[\w.$]+(?:<[^()]*>)?(?:\[\])*\s+(\w+)\s*\(`),
				kind:   report.KindFunction,
				name:   1,
				inType: true,
			},
			{re: rx(`^(?:public|private|protected)\s+(\w+)\s*\(`), kind: report.KindFunction, name: 1, inType: true},
		},
		imports: []importRule{
			{re: rx(`^import\s+static\s+([\w.*]+)\s*;?`), module: 1, mechanism: "import"},
			{re: rx(`^import\s+([\w.]+\.\{[^}]*\})`), module: 1, mechanism: "import"},
			{re: rx(`^import\s+([\w.*]+)(?:\s+as\s+(\w+))?\s*;?`), module: 1, alias: 2, mechanism: "import"},
		},
	}
}
