package domain

import (
	"errors"
	"fmt"
)

// ErrTimeout marks a hook call that ran past its deadline.
var ErrTimeout = fmt.Errorf("operation timed out")

// Sentinel errors for the onboarding domain.
var (
	ErrInvalidTransition = fmt.Errorf("invalid step transition")
	ErrInvalidToken      = fmt.Errorf("remote access token rejected")
	ErrRemoteUnavailable = fmt.Errorf("remote account unavailable")
	ErrFolderNotFound    = fmt.Errorf("folder not found")
	ErrNotADirectory     = fmt.Errorf("path is not a directory")
	ErrNoRepositories    = fmt.Errorf("no repositories found")
	ErrConfigLoad        = fmt.Errorf("failed to load configuration")
	ErrEncryption        = fmt.Errorf("encryption operation failed")
	ErrDecryption        = fmt.Errorf("decryption failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Remote.Connect")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for logs.
type ErrorCode string

const (
	CodeUnknown           ErrorCode = "UNKNOWN"
	CodeTimeout           ErrorCode = "TIMEOUT"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeInvalidToken      ErrorCode = "INVALID_TOKEN"
	CodeRemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE"
	CodeFolderNotFound    ErrorCode = "FOLDER_NOT_FOUND"
	CodeNotADirectory     ErrorCode = "NOT_A_DIRECTORY"
	CodeNoRepositories    ErrorCode = "NO_REPOSITORIES"
	CodeConfigLoad        ErrorCode = "CONFIG_LOAD"
	CodeEncryption        ErrorCode = "ENCRYPTION"
	CodeDecryption        ErrorCode = "DECRYPTION"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrTimeout:           CodeTimeout,
	ErrInvalidTransition: CodeInvalidTransition,
	ErrInvalidToken:      CodeInvalidToken,
	ErrRemoteUnavailable: CodeRemoteUnavailable,
	ErrFolderNotFound:    CodeFolderNotFound,
	ErrNotADirectory:     CodeNotADirectory,
	ErrNoRepositories:    CodeNoRepositories,
	ErrConfigLoad:        CodeConfigLoad,
	ErrEncryption:        CodeEncryption,
	ErrDecryption:        CodeDecryption,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and uses errors.Is to match sentinel errors.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	var de *DomainError
	if errors.As(err, &de) {
		if code := de.Code(); code != CodeUnknown {
			return code
		}
	}

	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError's underlying sentinel.
func (e *DomainError) Code() ErrorCode {
	if code, ok := errorCodeMap[e.Err]; ok {
		return code
	}
	return CodeUnknown
}
