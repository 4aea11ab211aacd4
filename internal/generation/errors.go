package generation

import (
	"errors"
	"fmt"

	"github.com/conorfennell/flashmark/internal/domain"
)

var (
	// ErrInvalidRequest wraps domain.ErrValidation for malformed generation
	// requests.
	ErrInvalidRequest = errors.New("invalid generation request")

	ErrInvalidResponse = errors.New("invalid response from language model")

	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrCompletionFailed wraps failures reported by the completion service.
	ErrCompletionFailed = errors.New("completion request failed")

	// ErrNotConfigured is returned when no completion service is available.
	ErrNotConfigured = errors.New("card generation is not configured")
)

func invalidRequest(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, domain.NewValidationError(field, message))
}
