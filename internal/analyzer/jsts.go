// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

// JSTypeScript handles JavaScript, TypeScript and the script sections of
// single-file components.
func JSTypeScript() *Analyzer {
	return &Analyzer{
		name:      "js-typescript",
		languages: []string{"javascript", "typescript", "vue", "svelte"},
		comments:  []string{"//", "/*", "*"},
		symbols: []symbolRule{
			{
				re:    rx(`^(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\s+(\w+)(?:<[^{]*?>)?(?:\s+extends\s+([\w.]+)(?:<[^{]*?>)?)?(?:\s+implements\s+([^{]+?))?\s*\{?\s*$`),
				kind:  report.KindClass,
				name:  1,
				bases: []int{2, 3},
			},
			{
				re:    rx(`^(?:export\s+)?(?:default\s+)?(?:declare\s+)?interface\s+(\w+)(?:<[^{]*?>)?(?:\s+extends\s+([^{]+?))?\s*\{?\s*$`),
				kind:  report.KindInterface,
				name:  1,
				bases: []int{2},
			},
			{re: rx(`^(?:export\s+)?(?:declare\s+)?type\s+(\w+)(?:<[^=]*>)?\s*=`), kind: report.KindInterface, name: 1},
			{re: rx(`^(?:export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+(\w+)`), kind: report.KindEnum, name: 1},
			{re: rx(`^(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*(?:<[^>]*>)?\s*\(`), kind: report.KindFunction, name: 1},
			{re: rx(`^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*(?::\s*[^=]+?)?\s*=>`), kind: report.KindFunction, name: 1},
			{re: rx(`^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?function\b`), kind: report.KindFunction, name: 1},
			{
				re:     rx(`^(?:(?:public|private|protected|static|readonly|override)\s+)*(#?\w+)\s*(?::[^=]+)?=\s*(?:async\s+)?\([^)]*\)\s*(?::\s*[^=]+?)?\s*=>`),
				kind:   report.KindFunction,
				name:   1,
				inType: true,
			},
			{
				re:     rx(`^(?:(?:public|private|protected|static|readonly|abstract|override|async|get|set)\s+)*\*?\s*(#?\w+)\s*(?:<[^>]*>)?\s*\([^)]*\)?\s*(?::\s*[^{;]+)?[{;]?\s*$`),
				kind:   report.KindFunction,
				name:   1,
				inType: true,
			},
		},
		imports: []importRule{
			{re: rx(`^import\s+\*\s+as\s+(\w+)\s+from\s+['"]([^'"]+)['"]`), alias: 1, module: 2, mechanism: "import"},
			{re: rx(`^import\s+(?:type\s+)?(\w+)\s*(?:,[^'"]*)?\s+from\s+['"]([^'"]+)['"]`), alias: 1, module: 2, mechanism: "import"},
			{re: rx(`^import\s+[^'"]*?\s*from\s+['"]([^'"]+)['"]`), module: 1, mechanism: "import"},
			{re: rx(`^import\s+['"]([^'"]+)['"]`), module: 1, mechanism: "import"},
			{re: rx(`^\}\s*from\s+['"]([^'"]+)['"]`), module: 1, mechanism: "import"},
			{re: rx(`^(?:const|let|var)\s+(\w+)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`), alias: 1, module: 2, mechanism: "require"},
			{re: rx(`^(?:const|let|var)\s+\{[^}]*\}\s*=\s*require\(\s*['"]([^'"]+)['"]`), module: 1, mechanism: "require"},
			{re: rx(`^require\(\s*['"]([^'"]+)['"]`), module: 1, mechanism: "require"},
			{re: rx(`^export\s+(?:type\s+)?(?:\*(?:\s+as\s+\w+)?|\{[^}]*\})\s+from\s+['"]([^'"]+)['"]`), module: 1, mechanism: "export"},
		},
	}
}
