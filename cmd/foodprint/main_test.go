package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/cli"
	"github.com/rshade/foodprint/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "foodprint", root.Use)
		assert.Equal(t, version.GetVersion(), root.Version)
	})
}

func TestExtractGapsExitCode(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantExitCode int
		wantIsGaps   bool
	}{
		{
			name:         "GapsExitError with exit code 2",
			err:          &cli.GapsExitError{ExitCode: 2, Reason: "computation has 1 data gap(s)"},
			wantExitCode: 2,
			wantIsGaps:   true,
		},
		{
			name:         "GapsExitError with exit code 42",
			err:          &cli.GapsExitError{ExitCode: 42, Reason: "missing data"},
			wantExitCode: 42,
			wantIsGaps:   true,
		},
		{
			name:         "wrapped GapsExitError",
			err:          fmt.Errorf("compute: %w", &cli.GapsExitError{ExitCode: 3, Reason: "wrapped"}),
			wantExitCode: 3,
			wantIsGaps:   true,
		},
		{
			name:         "joined GapsExitError",
			err:          errors.Join(errors.New("outer"), &cli.GapsExitError{ExitCode: 4, Reason: "joined"}),
			wantExitCode: 4,
			wantIsGaps:   true,
		},
		{
			name:         "other errors exit 1",
			err:          errors.New("generic error"),
			wantExitCode: 1,
		},
		{
			name:         "nil error returns 0",
			err:          nil,
			wantExitCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gapsErr *cli.GapsExitError
			assert.Equal(t, tt.wantIsGaps, errors.As(tt.err, &gapsErr))
			assert.Equal(t, tt.wantExitCode, extractGapsExitCode(tt.err))
		})
	}
}
