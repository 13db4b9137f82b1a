package apperrors

import (
	"errors"
	"fmt"
)

// Kind is a stable error category the HTTP layer can branch on.
// Adapters translate raw transport failures into one of these kinds
// before the error reaches the orchestrator.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindSizeLimit              Kind = "size_limit_exceeded"
	KindExtractionUnavailable  Kind = "extraction_unavailable"
	KindExtractionService      Kind = "extraction_service"
	KindEmbeddingService       Kind = "embedding_service"
	KindRetrievalUnavailable   Kind = "retrieval_unavailable"
	KindConfigurationConflict  Kind = "configuration_conflict"
	KindGeneration             Kind = "generation"
	KindInternal               Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind carried by err, or KindInternal for any
// error that never passed through an adapter translation.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err. Untyped errors get
// a generic message so transport-level detail never leaks to callers.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
