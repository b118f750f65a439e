package store

import (
	"errors"
	"fmt"

	"kutyus.dev/kutyus/feed"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrInvalidAuthor  = errors.New("store: invalid author")
	ErrDigestMismatch = errors.New("store: digest mismatch")
	ErrImmutable      = errors.New("store: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// RejectedError reports that chain validation rejected a frame during
// Append. The reason code is preserved so callers can distinguish storage
// inconsistencies from bad peers.
type RejectedError struct {
	Reason feed.RejectReason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("store: frame rejected: %s", e.Reason)
}

// Rejected returns the reject reason carried by err, if any.
func Rejected(err error) (feed.RejectReason, bool) {
	var e *RejectedError
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Reason, true
}
