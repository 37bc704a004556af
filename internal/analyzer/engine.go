// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"regexp"
	"strings"

	"github.com/bartekus/omnilens/internal/lang"
	"github.com/bartekus/omnilens/pkg/report"
)

var rx = regexp.MustCompile

// symbolRule matches one declaration form against a trimmed line.
type symbolRule struct {
	re *regexp.Regexp
	// kind is used when kindGroup is 0.
	kind report.SymbolKind
	// kindGroup selects a keyword group looked up in kinds.
	kindGroup int
	kinds     map[string]report.SymbolKind
	name      int
	// parent names the owner explicitly (Go receivers, C++ Foo::bar).
	parent int
	bases  []int
	// scope opens a container named by the name group without emitting a
	// symbol (Rust impl blocks, Swift extensions).
	scope bool
	// inType restricts the rule to lines inside an open type container.
	inType bool
	// list means the name group holds a comma separated list of names, one
	// symbol each (Ruby attr_accessor).
	list bool
	// until closes the opened frame on a matching line instead of by
	// indentation (Objective-C @end).
	until *regexp.Regexp
	// exclude vetoes the rule for statements that share its shape.
	exclude *regexp.Regexp
}

// importRule matches one import form against a trimmed line.
type importRule struct {
	re        *regexp.Regexp
	module    int
	alias     int
	mechanism string
	// mechGroup takes the mechanism from a group, "_once" suffix dropped.
	mechGroup int
	// list splits the module group on commas, each part "mod [as alias]".
	list bool
	// topLevel restricts the rule to unindented lines.
	topLevel bool
}

// importBlock handles grouped imports such as Go's `import ( ... )`.
type importBlock struct {
	open  *regexp.Regexp
	close *regexp.Regexp
	entry importRule
}

// Analyzer is a LanguageAnalyzer driven by ordered rule lists. The first
// rule matching a line wins.
type Analyzer struct {
	name      string
	languages []string
	comments  []string
	symbols   []symbolRule
	imports   []importRule
	block     *importBlock

	// labels match lines that neither declare nor close anything, such as
	// C++ access specifiers written at the class's own indent.
	labels *regexp.Regexp
}

func (a *Analyzer) Name() string { return a.name }

func (a *Analyzer) Languages() []string { return a.languages }

// names that patterns can capture from control flow rather than declarations.
var notDeclarations = map[string]struct{}{
	"if": {}, "else": {}, "elif": {}, "for": {}, "foreach": {}, "while": {}, "do": {},
	"switch": {}, "case": {}, "catch": {}, "try": {}, "return": {}, "function": {},
	"new": {}, "delete": {}, "sizeof": {}, "typeof": {}, "await": {}, "yield": {},
	"unless": {}, "until": {}, "super": {}, "this": {}, "using": {}, "lock": {},
	"fixed": {}, "throw": {}, "match": {}, "when": {},
}

type frame struct {
	name   string
	isType bool
	indent int
	until  *regexp.Regexp
}

func (a *Analyzer) skip(text string) bool {
	if text == "" {
		return true
	}
	for _, p := range a.comments {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// ExtractSymbols scans lines top to bottom keeping a stack of open
// containers. A callable found directly inside a type container becomes a
// method of it.
func (a *Analyzer) ExtractSymbols(path, language string, lines []string) []report.SymbolRecord {
	testFile := lang.IsTestFile(path)
	var (
		out   []report.SymbolRecord
		stack []frame
	)

	for i, raw := range lines {
		text := strings.TrimSpace(raw)
		// A lone brace opens the block of the previous line.
		if a.skip(text) || text == "{" || (a.labels != nil && a.labels.MatchString(text)) {
			continue
		}
		stack = popFrames(stack, indentOf(raw), text)

		for _, r := range a.symbols {
			m := r.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if r.inType && !insideType(stack) {
				continue
			}
			if r.exclude != nil && r.exclude.MatchString(text) {
				continue
			}
			name := strings.TrimSpace(m[r.name])
			if _, bad := notDeclarations[name]; bad || name == "" {
				continue
			}

			opened := frame{name: name, indent: indentOf(raw), until: r.until}
			if r.scope {
				opened.isType = true
				stack = append(stack, opened)
				break
			}

			kind := r.kind
			if r.kindGroup > 0 {
				kind = r.kinds[m[r.kindGroup]]
			}
			parent := ""
			if r.parent > 0 {
				parent = lastSegment(m[r.parent])
			}
			if kind.IsCallable() {
				if parent == "" {
					if f, ok := top(stack); ok && f.isType {
						parent = f.name
					}
				}
				if parent != "" {
					kind = report.KindMethod
				} else {
					kind = report.KindFunction
				}
			}

			var bases []string
			for _, g := range r.bases {
				bases = append(bases, splitBases(m[g])...)
			}

			names := []string{name}
			if r.list {
				names = splitNames(m[r.name])
			}
			for _, n := range names {
				out = append(out, report.SymbolRecord{
					Name:       n,
					FilePath:   path,
					LineNumber: i + 1,
					Kind:       kind,
					Language:   language,
					Parent:     parent,
					Bases:      bases,
					IsTest:     testFile || (kind.IsCallable() && isTestName(n)),
				})
			}

			if !r.list {
				opened.isType = !kind.IsCallable()
				stack = append(stack, opened)
			}
			break
		}
	}

	countMethods(out)
	return out
}

// ExtractImports applies the import rules, first match per line. Records
// are neither resolved nor deduplicated.
func (a *Analyzer) ExtractImports(path, language string, lines []string) []report.ImportRecord {
	testFile := lang.IsTestFile(path)
	var out []report.ImportRecord
	inBlock := false

	for i, raw := range lines {
		text := strings.TrimSpace(raw)
		if a.skip(text) {
			continue
		}

		if a.block != nil {
			if inBlock {
				if a.block.close.MatchString(text) {
					inBlock = false
					continue
				}
				if m := a.block.entry.re.FindStringSubmatch(text); m != nil {
					out = append(out, a.block.entry.records(m, path, i+1, testFile)...)
				}
				continue
			}
			if a.block.open.MatchString(text) {
				inBlock = true
				continue
			}
		}

		for _, r := range a.imports {
			if r.topLevel && indentOf(raw) > 0 {
				continue
			}
			m := r.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			out = append(out, r.records(m, path, i+1, testFile)...)
			break
		}
	}
	return out
}

func (r importRule) records(m []string, path string, line int, testFile bool) []report.ImportRecord {
	mechanism := r.mechanism
	if r.mechGroup > 0 {
		mechanism = strings.TrimSuffix(m[r.mechGroup], "_once")
	}
	record := func(module, alias string) report.ImportRecord {
		return report.ImportRecord{
			Module:     module,
			Alias:      alias,
			LineNumber: line,
			Mechanism:  mechanism,
			FilePath:   path,
			IsTest:     testFile,
		}
	}

	if !r.list {
		alias := ""
		if r.alias > 0 {
			alias = m[r.alias]
		}
		return []report.ImportRecord{record(strings.TrimSpace(m[r.module]), alias)}
	}

	var out []report.ImportRecord
	for _, part := range strings.Split(m[r.module], ",") {
		fields := strings.Fields(part)
		switch {
		case len(fields) == 0:
		case len(fields) >= 3 && fields[1] == "as":
			out = append(out, record(fields[0], fields[2]))
		default:
			out = append(out, record(fields[0], ""))
		}
	}
	return out
}

func popFrames(stack []frame, indent int, text string) []frame {
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.until != nil {
			if f.until.MatchString(text) {
				stack = stack[:len(stack)-1]
				continue
			}
			break
		}
		if f.indent >= indent {
			stack = stack[:len(stack)-1]
			continue
		}
		break
	}
	return stack
}

func top(stack []frame) (frame, bool) {
	if len(stack) == 0 {
		return frame{}, false
	}
	return stack[len(stack)-1], true
}

func insideType(stack []frame) bool {
	f, ok := top(stack)
	return ok && f.isType
}

// countMethods credits each method to the nearest preceding container with
// the same name in the file, or the first such container when none
// precedes it.
func countMethods(symbols []report.SymbolRecord) {
	for _, s := range symbols {
		if s.Kind != report.KindMethod || s.Parent == "" {
			continue
		}
		owner, first := -1, -1
		for j := range symbols {
			c := symbols[j]
			if !c.Kind.IsContainer() || c.Name != s.Parent {
				continue
			}
			if first < 0 {
				first = j
			}
			if c.LineNumber <= s.LineNumber {
				owner = j
			}
		}
		if owner < 0 {
			owner = first
		}
		if owner >= 0 {
			symbols[owner].MethodCount++
		}
	}
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func isTestName(name string) bool {
	return strings.HasPrefix(name, "test") || strings.HasPrefix(name, "Test")
}

// lastSegment drops namespace qualifiers (a::b, a.b, a\b) from a name.
func lastSegment(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `:.\`); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}

// splitNames turns ":a, :b" or "a, b" into names.
func splitNames(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.Trim(strings.TrimSpace(part), `:'"`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitBases splits an inheritance clause on top-level commas or + bounds and
// keeps the type name of every entry, dropping access keywords and
// constructor calls.
func splitBases(clause string) []string {
	var (
		out   []string
		depth int
		start int
	)
	emit := func(part string) {
		part = strings.TrimSpace(part)
		if i := strings.IndexAny(part, "(<"); i >= 0 {
			part = strings.TrimSpace(part[:i])
		}
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return
		}
		out = append(out, fields[len(fields)-1])
	}
	for i, r := range clause {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',', '+':
			if depth == 0 {
				emit(clause[start:i])
				start = i + 1
			}
		}
	}
	emit(clause[start:])
	return out
}
