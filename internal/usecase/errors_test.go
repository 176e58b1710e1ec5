package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{name: "invalid", err: invalidInputf("limit must be between 1 and %d", MaxListLimit), kind: ErrInvalidInput, msg: "limit must be between 1 and 100"},
		{name: "not found", err: notFound("match", "101"), kind: ErrNotFound, msg: `match "101" not found`},
		{name: "unavailable", err: unavailablef("upstream %s matches", "live"), kind: ErrDependencyUnavailable, msg: "upstream live matches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.msg, tt.err.Error())
			require.True(t, errors.Is(tt.err, tt.kind))
			require.True(t, errors.Is(fmt.Errorf("handler: %w", tt.err), tt.kind))
			for _, other := range []error{ErrInvalidInput, ErrNotFound, ErrDependencyUnavailable} {
				if other != tt.kind {
					require.False(t, errors.Is(tt.err, other))
				}
			}
		})
	}
}
