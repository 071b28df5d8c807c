package xerrors

import "errors"

// Common reusable application errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict: resource already exists")
	ErrRateLimited      = errors.New("too many requests")
	ErrSessionExpired   = errors.New("session expired or invalid")
	ErrDuplicateEntry   = errors.New("duplicate entry")
	ErrAlreadyDecided   = errors.New("quotation request already decided")
	ErrEmptyQuotation   = errors.New("quotation has no line items")
	ErrSearchSuperseded = errors.New("search results superseded by a newer search")
)

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
