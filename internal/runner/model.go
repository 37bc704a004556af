// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import "time"

// Status is the outcome of an analysis run.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// LastRun summarises the most recent analysis run.
// Matches .omnilens/run/last-run.json schema.
type LastRun struct {
	RunID      string    `json:"run_id,omitempty"`
	Status     Status    `json:"status"`
	Command    string    `json:"command"`
	Path       string    `json:"path"`
	Mode       string    `json:"mode,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Commits    int       `json:"commits"`
	Files      int       `json:"files"`
	Warnings   int       `json:"warnings"`
	Cached     bool      `json:"cached,omitempty"`
	Output     string    `json:"output,omitempty"`
	Error      string    `json:"error,omitempty"`
}
