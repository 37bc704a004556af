// SPDX-License-Identifier: AGPL-3.0-or-later

package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := map[string]string{
		"main.go":                "go",
		"src/app.PY":             "python",
		"web/App.tsx":            "typescript",
		"web/index.jsx":          "javascript",
		"lib/foo.h":              "cpp",
		"ios/View.m":             "objective-c",
		"Sources/App.swift":      "swift",
		"lib/app.ex":             "elixir",
		"test/app_test.exs":      "elixir",
		"Makefile":               "makefile",
		"build/GNUmakefile":      "makefile",
		"Dockerfile":             "dockerfile",
		"deploy/Dockerfile.prod": "dockerfile",
		"Gemfile":                "ruby",
		"CMakeLists.txt":         "cmake",
		".env":                   "dotenv",
		".env.local":             "dotenv",
		"infra/main.tf":          "terraform",
		"schema.prisma":          "prisma",
		`win\path\Tool.cs`:       "csharp",
		"README":                 Unknown,
		"image.png":              Unknown,
		"notes.txt":              Unknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, Detect(path), path)
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("a.rs"))
	assert.False(t, Known("a.bin"))
}

func TestExtensionsTable(t *testing.T) {
	exts := Extensions()
	assert.GreaterOrEqual(t, len(exts), 80)

	for i := 1; i < len(exts); i++ {
		prev, cur := exts[i-1], exts[i]
		ordered := prev.Language < cur.Language ||
			(prev.Language == cur.Language && prev.Extension < cur.Extension)
		assert.True(t, ordered, "%v before %v", prev, cur)
	}
}

func TestIsTestFile(t *testing.T) {
	positives := []string{
		"test_models.py",
		"pkg/test_models.py",
		"pkg/models_test.py",
		"web/button.spec.ts",
		"web/button.test.jsx",
		"web/__tests__/button.js",
		"tests/helpers.rb",
		"spec/models/user_spec.rb",
		"src/foo_test.go",
		"src/FooTest.java",
		"app/UserTests.swift",
		"lib/user_test.exs",
		"test.js",
	}
	for _, p := range positives {
		assert.True(t, IsTestFile(p), p)
	}

	negatives := []string{
		"src/contest.py",
		"latest/main.go",
		"src/testing_utils.go",
		"src/attestation.ts",
		"docs/testimony.md",
	}
	for _, p := range negatives {
		assert.False(t, IsTestFile(p), p)
	}
}
