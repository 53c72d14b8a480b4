package repositories

import "errors"

// Sentinel errors returned by repositories. Implementations wrap these with
// context via fmt.Errorf("...: %w", ...); handlers classify with errors.Is.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)
