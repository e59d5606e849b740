package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("Remote.Connect", ErrInvalidToken, "token prefix")
	want := "Remote.Connect: token prefix: remote access token rejected"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("LocalRepo.Scan", ErrNoRepositories, "")
	want := "LocalRepo.Scan: no repositories found"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("LocalRepo.Scan", ErrFolderNotFound, "/nope")
	if !errors.Is(err, ErrFolderNotFound) {
		t.Error("errors.Is should match ErrFolderNotFound")
	}
}

func TestDomainErrorAs(t *testing.T) {
	err := NewDomainError("Sequencer.Apply", ErrInvalidTransition, "skip 0")
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Sequencer.Apply", de.Op)
}

func TestWrapOp(t *testing.T) {
	assert.NoError(t, WrapOp("op", nil))

	err := WrapOp("Config.Load", ErrConfigLoad)
	assert.EqualError(t, err, "Config.Load: failed to load configuration")
	assert.ErrorIs(t, err, ErrConfigLoad)
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"direct", ErrInvalidToken, CodeInvalidToken},
		{"domain error", NewDomainError("LocalRepo.Scan", ErrNoRepositories, ""), CodeNoRepositories},
		{"wrapped", fmt.Errorf("outer: %w", ErrFolderNotFound), CodeFolderNotFound},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewDomainError("x", ErrDecryption, "")), CodeDecryption},
		{"unknown", errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeOf(tt.err))
		})
	}
}

func TestDomainErrorCode(t *testing.T) {
	assert.Equal(t, CodeNotADirectory, NewDomainError("x", ErrNotADirectory, "").Code())
	assert.Equal(t, CodeUnknown, NewDomainError("x", errors.New("other"), "").Code())
}
