// Package feed implements frame building and append-only chain validation
// for per-author message logs.
//
// The validator holds no state of its own: the caller threads the last
// accepted frame for an author through each call and stores the new state on
// acceptance. Validations for distinct authors are fully independent;
// accept-attempts for a single author must be serialized by the caller,
// since each validation reads the state a concurrent accept would advance.
package feed

import "errors"

// RejectReason is a stable code naming why a candidate frame was rejected.
// Callers branch on the reason to tell a storage inconsistency from a
// malicious or buggy peer; no reason is retryable with the same bytes.
type RejectReason string

const (
	// ReasonIDMismatch: the frame's id is not the digest of its message bytes.
	ReasonIDMismatch RejectReason = "IdMismatch"

	// ReasonBadSignature: the signature does not verify under the author's key.
	ReasonBadSignature RejectReason = "BadSignature"

	// ReasonInvalidGenesis: a first frame with sequence != 1 or a non-sentinel
	// parent link.
	ReasonInvalidGenesis RejectReason = "InvalidGenesis"

	// ReasonSequenceGap: sequence is not exactly one past the last accepted
	// frame.
	ReasonSequenceGap RejectReason = "SequenceGap"

	// ReasonBrokenLink: the parent link does not match the digest of the last
	// accepted frame, or the author differs from the feed owner.
	ReasonBrokenLink RejectReason = "BrokenLink"

	// ReasonTimeRegression: timestamp moved backwards within the feed.
	ReasonTimeRegression RejectReason = "TimeRegression"
)

// Builder errors.
var (
	ErrInvalidSequence = errors.New("feed: sequence must be >= 1")
	ErrPreviousDigest  = errors.New("feed: previous digest inconsistent with sequence")
)

// Result is the outcome of validating one candidate frame.
type Result struct {
	Accepted bool
	// Reason is set only when Accepted is false.
	Reason RejectReason
}

func accepted() Result {
	return Result{Accepted: true}
}

func rejected(reason RejectReason) Result {
	return Result{Reason: reason}
}
