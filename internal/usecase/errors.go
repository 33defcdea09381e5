package usecase

import (
	"errors"
	"fmt"

	"talent-match/internal/repository"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrResourceNotFound = errors.New("resource not found")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrInProgress       = errors.New("operation already in progress")
	ErrInternal         = errors.New("internal error")
)

// failed wraps cause under ErrExtractionFailed. Both kinds stay visible to
// errors.Is and the cause text is kept in the message.
func failed(cause error) error {
	return fmt.Errorf("%w: %w", ErrExtractionFailed, cause)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrResourceNotFound, kind, id)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrResourceNotFound)
}
