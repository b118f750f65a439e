package wire

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings;
// Error() strings are human-readable and may evolve.
type Kind string

const (
	// KindTruncated marks inputs that ended before a complete value was read.
	// Callers that stream bytes may retry once more input is available.
	KindTruncated Kind = "Truncated"

	// KindEncoding marks structurally invalid or non-canonical inputs.
	// These are permanent: re-reading the same bytes cannot succeed.
	KindEncoding Kind = "Encoding"

	// KindMalformed marks well-formed encodings whose field values violate
	// message constraints (e.g. a zero sequence number). Also permanent.
	KindMalformed Kind = "Malformed"
)

// Error is the wire codec's structured error type.
//
// RuleID is a stable identifier (e.g. KU-WIRE-102) naming the violated
// encoding rule.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// IsTruncated reports whether err marks an input that ended early.
func IsTruncated(err error) bool { return IsKind(err, KindTruncated) }

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
