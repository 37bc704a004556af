// SPDX-License-Identifier: AGPL-3.0-or-later

package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", cause, ExitFailure},
		{"usage", Usage(cause), ExitUsage},
		{"wrapped twice", fmt.Errorf("outer: %w", Wrap(ExitSourceUnavailable, "source", cause)), ExitSourceUnavailable},
		{"zero normalised", New(0, "x"), ExitFailure},
		{"formatted", Newf(ExitUsage, "bad %s", "flag"), ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ExitUsage, "invalid range", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid range: boom", err.Error())
	assert.Equal(t, "just text", Wrap(ExitUsage, "just text", nil).Error())
}
