// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSourceUnavailable matches every SourceUnavailableError.
	ErrSourceUnavailable = errors.New("history source unavailable")
	// ErrRange matches every RangeError.
	ErrRange = errors.New("invalid history range")
)

// SourceUnavailableError reports that the repository cannot be read: the git
// executable is missing, the path is not a repository, or the ref does not
// resolve.
type SourceUnavailableError struct {
	Path   string
	Ref    string
	Reason string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	msg := fmt.Sprintf("source unavailable: %s (%s)", e.Path, e.Reason)
	if e.Ref != "" {
		msg = fmt.Sprintf("source unavailable: %s at %s (%s)", e.Path, e.Ref, e.Reason)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrSourceUnavailable.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// RangeError reports filters that cannot select any commit by construction.
type RangeError struct {
	Since  time.Time
	Until  time.Time
	Reason string
}

func (e *RangeError) Error() string {
	if !e.Since.IsZero() && !e.Until.IsZero() {
		return fmt.Sprintf("invalid range: %s (since %s, until %s)",
			e.Reason, e.Since.Format(time.RFC3339), e.Until.Format(time.RFC3339))
	}
	return "invalid range: " + e.Reason
}

// Is lets errors.Is match ErrRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}
