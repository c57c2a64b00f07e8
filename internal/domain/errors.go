package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a local pre-flight failure; never reaches the network.
	ErrValidation = errors.New("validation failed")
	// ErrTransport signals the collaborator was unreachable or timed out.
	ErrTransport = errors.New("transport failure")
	// ErrServer signals a failure status from the collaborator.
	ErrServer = errors.New("server error")
	// ErrClipboard signals a best-effort clipboard export failure.
	ErrClipboard = errors.New("clipboard unavailable")

	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// ServerError wraps ErrServer with the HTTP status and the human-readable
// detail string to surface verbatim.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d", ErrServer.Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrServer.Error(), e.Status, e.Detail)
}

func (e *ServerError) Unwrap() error { return ErrServer }

// NewServerError creates a server error with a detail message.
func NewServerError(status int, detail string) error {
	return &ServerError{Status: status, Detail: detail}
}

// Severity tags a user-facing notice.
type Severity string

const (
	// SeverityDanger marks validation and server failures.
	SeverityDanger Severity = "danger"
	// SeverityWarning marks transport failures.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks empty states and downgraded clipboard failures.
	SeverityInfo Severity = "info"
	// SeveritySuccess marks completed queries with exported context.
	SeveritySuccess Severity = "success"
)
