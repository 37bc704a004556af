// SPDX-License-Identifier: AGPL-3.0-or-later

/*
omnilens - repository intelligence for commit history and source trees.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package report defines the canonical, serialization-ready model produced by
// an analysis run. Renderers and viewers read it; nothing mutates it after the
// pipeline has assembled it.
package report

import "time"

// BreakingType identifies how a breaking change was declared.
type BreakingType string

const (
	// BreakingConventional is a `!` marker in a conventional-commit subject.
	BreakingConventional BreakingType = "conventional_breaking"
	// BreakingAnnotation is a BREAKING CHANGE: footer in the message.
	BreakingAnnotation BreakingType = "breaking_change_annotation"
)

// BreakingChange is the structured note attached to a breaking commit.
type BreakingChange struct {
	Type        BreakingType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
}

// FileChange is a single numstat entry of a commit.
type FileChange struct {
	Path       string `json:"path" yaml:"path"`
	Insertions int    `json:"insertions" yaml:"insertions"`
	Deletions  int    `json:"deletions" yaml:"deletions"`
	Binary     bool   `json:"binary,omitempty" yaml:"binary,omitempty"`
}

// CommitRecord is one parsed and classified commit.
type CommitRecord struct {
	Hash                string          `json:"hash" yaml:"hash"`
	AuthorName          string          `json:"author_name" yaml:"author_name"`
	AuthorEmail         string          `json:"author_email" yaml:"author_email"`
	Timestamp           time.Time       `json:"timestamp" yaml:"timestamp"`
	Category            Category        `json:"category" yaml:"category"`
	Type                string          `json:"type,omitempty" yaml:"type,omitempty"`
	Scope               string          `json:"scope,omitempty" yaml:"scope,omitempty"`
	Subject             string          `json:"subject" yaml:"subject"`
	Description         string          `json:"description" yaml:"description"`
	Message             string          `json:"message" yaml:"message"`
	IsBreaking          bool            `json:"is_breaking" yaml:"is_breaking"`
	Breaking            *BreakingChange `json:"breaking,omitempty" yaml:"breaking,omitempty"`
	BreakingDescription string          `json:"breaking_description,omitempty" yaml:"breaking_description,omitempty"`
	Insertions          int             `json:"insertions" yaml:"insertions"`
	Deletions           int             `json:"deletions" yaml:"deletions"`
	FilesChanged        int             `json:"files_changed" yaml:"files_changed"`
	Files               []FileChange    `json:"files,omitempty" yaml:"files,omitempty"`
}

// SymbolKind is the declaration kind of an extracted symbol.
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindModule    SymbolKind = "module"
	KindStruct    SymbolKind = "struct"
	KindEnum      SymbolKind = "enum"
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
)

// IsContainer reports whether symbols of this kind accumulate a method count.
func (k SymbolKind) IsContainer() bool {
	switch k {
	case KindClass, KindModule, KindStruct:
		return true
	default:
		return false
	}
}

// IsCallable reports whether the kind is a function or a method.
func (k SymbolKind) IsCallable() bool {
	return k == KindFunction || k == KindMethod
}

// SymbolRecord is a declaration found by the symbol extractor.
type SymbolRecord struct {
	Name        string     `json:"name" yaml:"name"`
	FilePath    string     `json:"file_path" yaml:"file_path"`
	LineNumber  int        `json:"line_number" yaml:"line_number"`
	Kind        SymbolKind `json:"kind" yaml:"kind"`
	Language    string     `json:"language" yaml:"language"`
	Parent      string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Bases       []string   `json:"bases,omitempty" yaml:"bases,omitempty"`
	IsTest      bool       `json:"is_test" yaml:"is_test"`
	Complexity  int        `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	MethodCount int        `json:"method_count" yaml:"method_count"`
}

// ImportRecord is one import/require/use edge of a file. Records are file
// scoped: module strings are kept exactly as written.
type ImportRecord struct {
	Module     string `json:"module" yaml:"module"`
	Alias      string `json:"alias,omitempty" yaml:"alias,omitempty"`
	LineNumber int    `json:"line_number" yaml:"line_number"`
	Mechanism  string `json:"mechanism" yaml:"mechanism"`
	FilePath   string `json:"file_path" yaml:"file_path"`
	IsTest     bool   `json:"is_test" yaml:"is_test"`
}

// FileMetrics holds line counts and the complexity estimate of one file.
type FileMetrics struct {
	FilePath              string  `json:"file_path" yaml:"file_path"`
	Language              string  `json:"language" yaml:"language"`
	Lines                 int     `json:"lines" yaml:"lines"`
	EffectiveLines        int     `json:"effective_lines" yaml:"effective_lines"`
	CommentLines          int     `json:"comment_lines" yaml:"comment_lines"`
	Functions             int     `json:"functions" yaml:"functions"`
	Classes               int     `json:"classes" yaml:"classes"`
	Complexity            int     `json:"complexity" yaml:"complexity"`
	ComplexityPerFunction float64 `json:"complexity_per_function" yaml:"complexity_per_function"`
	MaintainabilityIndex  float64 `json:"maintainability_index" yaml:"maintainability_index"`
}

// FileRecord groups everything extracted from a single file.
type FileRecord struct {
	Path     string         `json:"path" yaml:"path"`
	Language string         `json:"language" yaml:"language"`
	Metrics  FileMetrics    `json:"metrics" yaml:"metrics"`
	Symbols  []SymbolRecord `json:"symbols" yaml:"symbols"`
	Imports  []ImportRecord `json:"imports" yaml:"imports"`
}

// AuthorStats accumulates the activity of one author.
type AuthorStats struct {
	Commits      int `json:"commits" yaml:"commits"`
	Insertions   int `json:"insertions" yaml:"insertions"`
	Deletions    int `json:"deletions" yaml:"deletions"`
	FilesChanged int `json:"files_changed" yaml:"files_changed"`
}

// BreakingEntry lists a breaking commit in the aggregate report.
type BreakingEntry struct {
	Hash        string       `json:"hash" yaml:"hash"`
	Subject     string       `json:"subject" yaml:"subject"`
	Type        BreakingType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
}

// TechDebt summarises commit categories into debt, feature and maintenance
// shares plus the derived health score.
type TechDebt struct {
	TotalCommits          int     `json:"total_commits" yaml:"total_commits"`
	DebtCommits           int     `json:"debt_commits" yaml:"debt_commits"`
	FeatureCommits        int     `json:"feature_commits" yaml:"feature_commits"`
	MaintenanceCommits    int     `json:"maintenance_commits" yaml:"maintenance_commits"`
	DebtPercentage        float64 `json:"debt_percentage" yaml:"debt_percentage"`
	FeaturePercentage     float64 `json:"feature_percentage" yaml:"feature_percentage"`
	MaintenancePercentage float64 `json:"maintenance_percentage" yaml:"maintenance_percentage"`
	HealthScore           float64 `json:"health_score" yaml:"health_score"`
	ComplexityScore       float64 `json:"complexity_score" yaml:"complexity_score"`
	MaintainabilityIndex  float64 `json:"maintainability_index" yaml:"maintainability_index"`
}

// FileOwnership describes how concentrated the commits touching a file are.
type FileOwnership struct {
	Path      string  `json:"path" yaml:"path"`
	Commits   int     `json:"commits" yaml:"commits"`
	Authors   int     `json:"authors" yaml:"authors"`
	TopAuthor string  `json:"top_author" yaml:"top_author"`
	TopShare  float64 `json:"top_share" yaml:"top_share"`
	BusFactor int     `json:"bus_factor" yaml:"bus_factor"`
}

// FileChurn is the change volume of a file across the mined history.
type FileChurn struct {
	Path       string `json:"path" yaml:"path"`
	Commits    int    `json:"commits" yaml:"commits"`
	Insertions int    `json:"insertions" yaml:"insertions"`
	Deletions  int    `json:"deletions" yaml:"deletions"`
	Changes    int    `json:"changes" yaml:"changes"`
}

// DependencyNode is a file of the dependency graph.
type DependencyNode struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Language    string `json:"language" yaml:"language"`
	ImportCount int    `json:"import_count" yaml:"import_count"`
}

// DependencyEdge connects a file to a module string it imports.
type DependencyEdge struct {
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Mechanism string `json:"mechanism" yaml:"mechanism"`
}

// DependencyGraph is the file-to-module import graph. Modules are never
// resolved to files.
type DependencyGraph struct {
	Nodes           []DependencyNode `json:"nodes" yaml:"nodes"`
	Edges           []DependencyEdge `json:"edges" yaml:"edges"`
	ExternalModules []string         `json:"external_modules" yaml:"external_modules"`
}

// AggregateReport is the folded view over commits and files.
type AggregateReport struct {
	Categories        CategoryBreakdown      `json:"categories" yaml:"categories"`
	Authors           map[string]AuthorStats `json:"authors" yaml:"authors"`
	BreakingChanges   []BreakingEntry        `json:"breaking_changes" yaml:"breaking_changes"`
	TechDebt          TechDebt               `json:"tech_debt" yaml:"tech_debt"`
	TotalCommits      int                    `json:"total_commits" yaml:"total_commits"`
	TotalFiles        int                    `json:"total_files" yaml:"total_files"`
	TotalLOC          int                    `json:"total_loc" yaml:"total_loc"`
	TotalEffectiveLOC int                    `json:"total_effective_loc" yaml:"total_effective_loc"`
	TotalComplexity   int                    `json:"total_complexity" yaml:"total_complexity"`
	AverageComplexity float64                `json:"average_complexity" yaml:"average_complexity"`
	Languages         map[string]int         `json:"languages" yaml:"languages"`
	Ownership         []FileOwnership        `json:"ownership" yaml:"ownership"`
	BusFactor         int                    `json:"bus_factor" yaml:"bus_factor"`
	Churn             []FileChurn            `json:"churn" yaml:"churn"`
	Hotspots          []FileChurn            `json:"hotspots" yaml:"hotspots"`
	Dependencies      DependencyGraph        `json:"dependencies" yaml:"dependencies"`
}

// Mode tells whether the run mined history or only scanned files.
type Mode string

const (
	ModeGit      Mode = "git"
	ModeFileScan Mode = "file_scan"
)

// Metadata describes the run that produced a report.
type Metadata struct {
	RunID        string    `json:"run_id" yaml:"run_id"`
	Path         string    `json:"path" yaml:"path"`
	Ref          string    `json:"ref,omitempty" yaml:"ref,omitempty"`
	Head         string    `json:"head,omitempty" yaml:"head,omitempty"`
	Since        string    `json:"since,omitempty" yaml:"since,omitempty"`
	Until        string    `json:"until,omitempty" yaml:"until,omitempty"`
	Author       string    `json:"author,omitempty" yaml:"author,omitempty"`
	Mode         Mode      `json:"mode" yaml:"mode"`
	AnalyzedAt   time.Time `json:"analyzed_at" yaml:"analyzed_at"`
	FirstCommit  time.Time `json:"first_commit,omitempty" yaml:"first_commit,omitempty"`
	LastCommit   time.Time `json:"last_commit,omitempty" yaml:"last_commit,omitempty"`
	DurationDays int       `json:"duration_days" yaml:"duration_days"`
	Cached       bool      `json:"cached,omitempty" yaml:"cached,omitempty"`
	// CachedFrom is the run that produced a cached report.
	CachedFrom string `json:"cached_from,omitempty" yaml:"cached_from,omitempty"`
}

// Warning records a recovered, per-file failure.
type Warning struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// Report is the full result of one analysis run.
type Report struct {
	Metadata  Metadata        `json:"metadata" yaml:"metadata"`
	Commits   []CommitRecord  `json:"commits" yaml:"commits"`
	Files     []FileRecord    `json:"files" yaml:"files"`
	Symbols   []SymbolRecord  `json:"symbols" yaml:"symbols"`
	Imports   []ImportRecord  `json:"imports" yaml:"imports"`
	Aggregate AggregateReport `json:"aggregate" yaml:"aggregate"`
	Warnings  []Warning       `json:"warnings" yaml:"warnings"`
}
