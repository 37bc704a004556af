// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commits turns raw history entries into classified commit records.
package commits

import (
	"regexp"
	"strings"

	"github.com/bartekus/omnilens/internal/history"
	"github.com/bartekus/omnilens/pkg/report"
)

// conventionalSubject matches `type(scope)!: description`. The scope group
// cannot contain ')' so the first colon after the optional scope and marker
// always ends the type.
var conventionalSubject = regexp.MustCompile(`^(\w[\w-]*)(?:\(([^)]*)\))?(!)?:\s*(.*)$`)

// Subject is the decoded form of a commit subject line.
type Subject struct {
	Type        string
	Scope       string
	Breaking    bool
	Description string
	// Conventional is false when the subject did not match the grammar.
	Conventional bool
}

// ParseSubject decodes a subject line. A subject that does not follow the
// conventional grammar yields its trimmed text as the description.
func ParseSubject(subject string) Subject {
	subject = strings.TrimSpace(subject)
	m := conventionalSubject.FindStringSubmatch(subject)
	if m == nil {
		return Subject{Description: subject}
	}
	return Subject{
		Type:         m[1],
		Scope:        strings.TrimSpace(m[2]),
		Breaking:     m[3] == "!",
		Description:  strings.TrimSpace(m[4]),
		Conventional: true,
	}
}

// Parse builds the commit record for one raw log entry.
func Parse(raw history.RawCommit) report.CommitRecord {
	subject := raw.Subject
	if subject == "" {
		subject, _, _ = strings.Cut(raw.Message, "\n")
		subject = strings.TrimSpace(subject)
	}
	parsed := ParseSubject(subject)

	category := report.CategoryOther
	if parsed.Conventional {
		category = Classify(parsed.Type)
	}

	rec := report.CommitRecord{
		Hash:        raw.Hash,
		AuthorName:  raw.AuthorName,
		AuthorEmail: raw.AuthorEmail,
		Timestamp:   raw.Timestamp,
		Category:    category,
		Type:        parsed.Type,
		Scope:       parsed.Scope,
		Subject:     subject,
		Description: parsed.Description,
		Message:     raw.Message,
	}

	if b := DetectBreaking(parsed.Breaking, raw.Message); b != nil {
		rec.IsBreaking = true
		rec.Breaking = b
		rec.BreakingDescription = b.Description
	}

	for _, f := range raw.Files {
		rec.Insertions += f.Insertions
		rec.Deletions += f.Deletions
		rec.Files = append(rec.Files, report.FileChange{
			Path:       f.Path,
			Insertions: f.Insertions,
			Deletions:  f.Deletions,
			Binary:     f.Binary,
		})
	}
	rec.FilesChanged = len(raw.Files)
	return rec
}

// ParseAll parses raws in order.
func ParseAll(raws []history.RawCommit) []report.CommitRecord {
	out := make([]report.CommitRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Parse(raw))
	}
	return out
}
