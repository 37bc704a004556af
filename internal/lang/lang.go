// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lang maps file paths to language identifiers and recognises test
// files. Detection is purely path based; file contents are never read.
package lang

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Unknown is returned for paths no table entry matches. Downstream stages
// skip unknown files.
const Unknown = "unknown"

var extensions = map[string]string{
	// scripting
	".py": "python", ".rb": "ruby", ".pl": "perl", ".tcl": "tcl", ".lua": "lua",
	".r": "r", ".jl": "julia", ".ex": "elixir", ".exs": "elixir",
	".hs": "haskell", ".lhs": "haskell", ".awk": "awk", ".bat": "batch",
	".ps1": "powershell", ".erl": "erlang", ".pp": "puppet",

	// web
	".js": "javascript", ".jsx": "javascript", ".mjs": "javascript", ".cjs": "javascript",
	".ts": "typescript", ".tsx": "typescript",
	".vue": "vue", ".svelte": "svelte", ".html": "html", ".htm": "html",
	".css": "css", ".scss": "scss", ".sass": "sass", ".less": "less",
	".php": "php", ".astro": "astro", ".solid": "solid", ".elm": "elm",

	// jvm
	".java": "java", ".kt": "kotlin", ".kts": "kotlin-script", ".scala": "scala",
	".groovy": "groovy", ".clj": "clojure", ".cljs": "clojure", ".jade": "pug",

	// c family
	".c": "c", ".cpp": "cpp", ".cxx": "cpp", ".cc": "cpp", ".h": "cpp",
	".hpp": "cpp", ".hxx": "cpp", ".cs": "csharp", ".swift": "swift",
	".m": "objective-c", ".mm": "objective-c", ".d": "dlang",

	// systems
	".go": "go", ".rs": "rust", ".zig": "zig", ".nim": "nim", ".cr": "crystal",
	".v": "v", ".ml": "ocaml", ".mli": "ocaml", ".fs": "fsharp", ".fsi": "fsharp",

	// shell and config
	".sh": "shell", ".bash": "shell", ".zsh": "shell", ".fish": "shell",
	".yaml": "yaml", ".yml": "yaml", ".json": "json", ".xml": "xml",
	".toml": "toml", ".ini": "ini", ".cfg": "config", ".conf": "config",
	".hcl": "terraform", ".tf": "terraform",

	// data and markup
	".sql": "sql", ".md": "markdown", ".rst": "rst", ".tex": "latex",
	".csv": "csv", ".tsv": "tsv",

	// devops
	".dockerfile": "dockerfile", ".dockerignore": "dockerfile",
	".env": "dotenv", ".envrc": "dotenv",

	// build
	".mk": "makefile", ".makefile": "makefile", ".cmake": "cmake",
	".gradle": "gradle", ".scm": "scheme",

	// other
	".graphql": "graphql", ".proto": "protobuf", ".thrift": "thrift",
	".dart": "dart", ".asm": "assembly", ".s": "assembly",
	".prisma": "prisma", ".wasm": "webassembly",
}

var filenames = map[string]string{
	"makefile":       "makefile",
	"gnumakefile":    "makefile",
	"dockerfile":     "dockerfile",
	"containerfile":  "dockerfile",
	"jenkinsfile":    "groovy",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"vagrantfile":    "ruby",
	"cmakelists.txt": "cmake",
	"build":          "starlark",
	"build.bazel":    "starlark",
	"workspace":      "starlark",
	".envrc":         "dotenv",
	".env":           "dotenv",
}

// Detect returns the language of p, or Unknown.
func Detect(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	lower := strings.ToLower(base)

	if l, ok := filenames[lower]; ok {
		return l
	}
	if strings.HasPrefix(lower, "dockerfile.") || strings.HasSuffix(lower, ".dockerfile") {
		return "dockerfile"
	}
	if strings.HasPrefix(lower, ".env.") {
		return "dotenv"
	}
	if l, ok := extensions[path.Ext(lower)]; ok {
		return l
	}
	return Unknown
}

// Known reports whether p maps to a language.
func Known(p string) bool {
	return Detect(p) != Unknown
}

// Extension is one row of the extension table.
type Extension struct {
	Extension string
	Language  string
}

// Extensions lists the extension table sorted by language, then extension.
func Extensions() []Extension {
	out := make([]Extension, 0, len(extensions))
	for ext, l := range extensions {
		out = append(out, Extension{Extension: ext, Language: l})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}

var testPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)test_[^/]*\.py$`),
	regexp.MustCompile(`_test\.py$`),
	regexp.MustCompile(`\.test\.py$`),
	regexp.MustCompile(`\.spec\.py$`),
	regexp.MustCompile(`\.spec\.(js|ts|jsx|tsx)$`),
	regexp.MustCompile(`\.test\.(js|ts|jsx|tsx)$`),
	regexp.MustCompile(`(^|/)__tests__/`),
	regexp.MustCompile(`(^|/)tests?/`),
	regexp.MustCompile(`_spec\.(rb|js|ts)$`),
	regexp.MustCompile(`_tests?\.(php|rb)$`),
	regexp.MustCompile(`(^|/)test\.(js|ts)$`),
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`(Test|Tests)\.(java|kt|cs|swift)$`),
	regexp.MustCompile(`_test\.(exs|rs|c|cpp|cc)$`),
}

// IsTestFile reports whether p looks like a test source by path convention.
func IsTestFile(p string) bool {
	p = strings.ReplaceAll(p, `\`, "/")
	for _, re := range testPatterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}
