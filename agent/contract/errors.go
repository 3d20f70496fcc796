package contract

import (
	"context"
	"errors"
)

var (
	ErrSearch        = errors.New("search failed")
	ErrGeneration    = errors.New("generation failed")
	ErrValidation    = errors.New("validation failed")
	ErrPromptMissing = errors.New("required prompt is missing")
)

// KindOf classifies err into the ErrorKind recorded on a Result.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrSearch):
		return ErrorKindSearch
	case errors.Is(err, ErrGeneration):
		return ErrorKindGeneration
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	default:
		return ErrorKindInternal
	}
}
