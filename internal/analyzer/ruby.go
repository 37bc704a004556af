// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

// Ruby handles classes, modules, defs and attribute macros.
func Ruby() *Analyzer {
	return &Analyzer{
		name:      "ruby",
		languages: []string{"ruby"},
		comments:  []string{"#", "=begin", "=end"},
		symbols: []symbolRule{
			{re: rx(`^class\s+([A-Z][\w:]*)(?:\s*<\s*([\w:]+))?`), kind: report.KindClass, name: 1, bases: []int{2}},
			{re: rx(`^module\s+([A-Z][\w:]*)`), kind: report.KindModule, name: 1},
			{re: rx(`^def\s+(?:self\.)?(\w+[?!=]?)`), kind: report.KindFunction, name: 1},
			{re: rx(`^attr_(?:accessor|reader|writer)\s+(.+)$`), kind: report.KindMethod, name: 1, list: true, inType: true},
		},
		imports: []importRule{
			{re: rx(`^(require_relative|require)\s*\(?\s*['"]([^'"]+)['"]`), mechGroup: 1, module: 2},
			{re: rx(`^include\s+([A-Z][\w:]*)`), module: 1, mechanism: "include"},
			{re: rx(`^extend\s+([A-Z][\w:]*)`), module: 1, mechanism: "extend"},
		},
	}
}
