package social

import (
	"errors"
	"fmt"

	"github.com/pluma-social/pluma/internal/models"
)

var (
	// ErrNotFound is returned when an account, post, or follow edge
	// does not exist or is inactive.
	ErrNotFound = errors.New("not found")

	// ErrSelfFollow is returned when an account tries to follow itself.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrAccessDenied is returned when a viewer is not allowed to see a
	// private account's content, or to mutate someone else's post.
	ErrAccessDenied = errors.New("access denied")

	// ErrValidation is returned for malformed input the services can
	// detect themselves (empty content, bad page numbers).
	ErrValidation = errors.New("invalid input")
)

// AlreadyFollowingError reports a duplicate follow attempt, carrying the
// current state of the existing edge so callers can handle it
// idempotently.
type AlreadyFollowingError struct {
	State models.FollowStatus
}

// Error implements the error interface
func (e *AlreadyFollowingError) Error() string {
	return fmt.Sprintf("follow edge already exists in state %s", e.State)
}
