package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrPrivilege,
		ErrSampler,
		ErrDecode,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "privilege error",
			code:       ErrPrivilege,
			message:    "mxtop must be run as root",
			suggestion: "Re-run with sudo: sudo mxtop",
		},
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid timeout",
			suggestion: "Use a duration like 30s",
		},
		{
			name:       "decode error",
			code:       ErrDecode,
			message:    "Sample is not a dictionary",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "message and suggestion",
			err:           New(ErrConfig, "Invalid configuration", "Check config.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check config.yaml syntax"},
		},
		{
			name:          "cause is included",
			err:           WrapWithCode(fmt.Errorf("exec: not found"), ErrSampler, "Failed to start powermetrics", ""),
			expectedParts: []string{"Failed to start powermetrics", "exec: not found"},
		},
		{
			name:          "no suggestion",
			err:           New(ErrDecode, "Bad sample", ""),
			expectedParts: []string{"Bad sample"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("permission denied"),
		ErrPrivilege,
		"mxtop must be run as root",
		"Re-run with sudo: sudo mxtop",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "mxtop must be run as root")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Bad sample", New(ErrDecode, "Bad sample", "ignored").Summary())

	wrapped := WrapWithCode(errors.New("unexpected EOF"), ErrDecode, "Bad sample", "")
	assert.Equal(t, "Bad sample: unexpected EOF", wrapped.Summary())
	assert.NotContains(t, wrapped.Summary(), "\n")
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrConfig, "Config error", "")

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, cause, wrapped.Unwrap())

	var mxErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &mxErr))
	assert.Equal(t, ErrConfig, mxErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrPrivilege, "not root", "")

	assert.True(t, IsCode(err, ErrPrivilege))
	assert.True(t, IsCode(fmt.Errorf("start: %w", err), ErrPrivilege))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrPrivilege))
	assert.False(t, IsCode(nil, ErrPrivilege))
}

func TestIsAndAsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("start: %w", WrapWithCode(errors.ErrUnsupported, ErrSampler, "no sampler", ""))

	assert.True(t, Is(wrapped, errors.ErrUnsupported))

	var mxErr *Error
	require.True(t, As(wrapped, &mxErr))
	assert.Equal(t, "no sampler", mxErr.Message)
}
