// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import "github.com/bartekus/omnilens/pkg/report"

// Elixir handles modules, protocols and def forms. Module names keep their
// dotted path.
func Elixir() *Analyzer {
	return &Analyzer{
		name:      "elixir",
		languages: []string{"elixir"},
		comments:  []string{"#"},
		symbols: []symbolRule{
			{re: rx(`^defmodule\s+([A-Z][\w.]*)\s+do\b`), kind: report.KindModule, name: 1},
			{re: rx(`^defprotocol\s+([A-Z][\w.]*)\s+do\b`), kind: report.KindInterface, name: 1},
			{re: rx(`^defimpl\s+([A-Z][\w.]*)`), name: 1, scope: true},
			{re: rx(`^def(?:p|macro|macrop|guard|guardp|delegate)?\s+([a-z_]\w*[?!]?)`), kind: report.KindFunction, name: 1},
		},
		imports: []importRule{
			{re: rx(`^alias\s+([A-Z][\w.]*)\s*,\s*as:\s*([A-Z]\w*)`), module: 1, alias: 2, mechanism: "alias"},
			{re: rx(`^(alias|import|require|use)\s+([A-Z][\w.]*|:\w+)`), mechGroup: 1, module: 2},
		},
	}
}
