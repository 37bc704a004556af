// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

var (
	objcEnd    = rx(`^@end\b`)
	cStatement = rx(`^(?:return|else|case|goto|throw|delete|new|co_return|co_yield)\b`)
	// public:, private slots:, signals: and friends.
	cppAccess  = rx(`^(?:(?:public|private|protected)(?:\s+(?:slots|Q_SLOTS))?|signals|slots|Q_SIGNALS|Q_SLOTS)\s*:\s*$`)
)

// CLike handles C, C++ and Objective-C.
func CLike() *Analyzer {
	return &Analyzer{
		name:      "c-like",
		languages: []string{"c", "cpp", "objective-c"},
		comments:  []string{"//", "/*", "*"},
		labels:    cppAccess,
		symbols: []symbolRule{
			{
				re:    rx(`^@interface\s+(\w+)(?:\s*:\s*(\w+))?`),
				kind:  report.KindClass,
				name:  1,
				bases: []int{2},
				until: objcEnd,
			},
			{re: rx(`^@implementation\s+(\w+)`), name: 1, scope: true, until: objcEnd},
			{re: rx(`^@protocol\s+(\w+)\s*(?:<|$)`), kind: report.KindInterface, name: 1, until: objcEnd},
			{re: rx(`^[-+]\s*\([^)]*\)\s*(\w+)`), kind: report.KindMethod, name: 1},
			{re: rx(`^(?:typedef\s+)?enum\s+(?:class\s+|struct\s+)?(\w+)(?:\s*:\s*[\w:]+)?\s*\{?\s*$`), kind: report.KindEnum, name: 1},
			{
				re:        rx(`^(?:template\s*<[^>]*>\s*)?(?:typedef\s+)?(class|struct|union)\s+(?:\w+\s+)*?(\w+)(?:\s+final)?\s*(?::\s*([^{]+?))?\s*\{?\s*$`),
				kindGroup: 1,
				kinds:     map[string]report.SymbolKind{"class": report.KindClass, "struct": report.KindStruct, "union": report.KindStruct},
				name:      2,
				bases:     []int{3},
			},
			{
				re:      rx(`^(?:template\s*<[^>]*>\s*)?(?:(?:static|inline|extern|virtual|explicit|constexpr|friend)\s+)*[\w:<>,*&\s]*?[\w>*&]+[\s*&]+(?:(\w+)::)?(~?\w+)\s*\([^;]*$`),
				kind:    report.KindFunction,
				name:    2,
				parent:  1,
				exclude: cStatement,
			},
			{re: rx(`^(\w+)::(~?\w+)\s*\([^;]*$`), kind: report.KindFunction, name: 2, parent: 1},
		},
		imports: []importRule{
			{re: rx(`^#\s*(?:include|import)\s*[<"]([^>"]+)[>"]`), module: 1, mechanism: "include"},
			{re: rx(`^@import\s+([\w.]+)\s*;`), module: 1, mechanism: "import"},
		},
	}
}
