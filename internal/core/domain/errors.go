package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrTemporary        = errors.New("temporary failure")

	// ErrExtractionDegraded marks text that is a placeholder rather than document content.
	ErrExtractionDegraded = errors.New("extraction degraded")
	// ErrCompletionUnavailable covers every failure of the completion service.
	ErrCompletionUnavailable = errors.New("completion unavailable")
	// ErrMalformedCompletion is a completion that could not be parsed into the requested shape.
	ErrMalformedCompletion = errors.New("malformed completion output")
	ErrBatchItem           = errors.New("batch item failed")
	ErrFatalConfiguration  = errors.New("fatal configuration error")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
