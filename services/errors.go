package services

import "errors"

// Failure taxonomy surfaced to the HTTP and socket boundaries.
// Controllers map these to status codes; everything else is treated
// as an internal failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// invalid-input family
	ErrSelfTarget       = errors.New("cannot target yourself")
	ErrAlreadyFriends   = errors.New("already friends with this user")
	ErrDuplicateRequest = errors.New("friend request already sent")
	ErrEmptyContent     = errors.New("content is required")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrDuplicateAccount = errors.New("username or email already taken")
)

// IsInvalidInput reports whether err belongs to the invalid-input family
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrSelfTarget,
		ErrAlreadyFriends,
		ErrDuplicateRequest,
		ErrEmptyContent,
		ErrInvalidQuery,
		ErrDuplicateAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
