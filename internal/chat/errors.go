package chat

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services. Callers match them with errors.Is;
// the specific not-found errors all match ErrNotFound.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateName      = errors.New("discussion name already taken")
	ErrDuplicateUsername  = errors.New("user already exists")
	ErrAlreadyMember      = errors.New("user already present")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrPartialFailure means the first write of a multi-document operation
	// committed and a later one did not.
	ErrPartialFailure = errors.New("operation partially applied")

	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrAuthorNotFound     = fmt.Errorf("author %w", ErrNotFound)
	ErrDiscussionNotFound = fmt.Errorf("discussion %w", ErrNotFound)
	ErrMessageNotFound    = fmt.Errorf("message %w", ErrNotFound)
)
