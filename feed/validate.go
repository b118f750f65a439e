package feed

import (
	"bytes"

	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/sign"
	"kutyus.dev/kutyus/wire"
)

// Validate checks candidate against the last accepted frame of its feed.
// prev == nil means the feed is empty and candidate must be a genesis frame.
//
// The returned error is reserved for malformed inputs (candidate message
// bytes that do not decode, or a prev frame that cannot be re-encoded);
// every rule violation is reported as a Result with a reject reason.
func Validate(candidate, prev *wire.Frame) (Result, error) {
	if id := digestutil.Sum(candidate.MessageBytes); id != candidate.ID {
		return rejected(ReasonIDMismatch), nil
	}

	msg, err := candidate.Message()
	if err != nil {
		return Result{}, err
	}

	scope, err := wire.SigningScope(candidate.ID, candidate.MessageBytes)
	if err != nil {
		return Result{}, err
	}
	if !sign.Verify(msg.Author, scope, candidate.Signature) {
		return rejected(ReasonBadSignature), nil
	}

	if prev == nil {
		if msg.Sequence != 1 || !msg.Parent.IsZero() {
			return rejected(ReasonInvalidGenesis), nil
		}
		return accepted(), nil
	}

	prevMsg, err := prev.Message()
	if err != nil {
		return Result{}, err
	}
	if !bytes.Equal(msg.Author, prevMsg.Author) {
		// A frame signed by someone else cannot extend this feed, however
		// well its metadata lines up.
		return rejected(ReasonBrokenLink), nil
	}
	if msg.Sequence != prevMsg.Sequence+1 {
		return rejected(ReasonSequenceGap), nil
	}
	prevDigest, err := prev.Digest()
	if err != nil {
		return Result{}, err
	}
	if msg.Parent != prevDigest {
		return rejected(ReasonBrokenLink), nil
	}
	if msg.Timestamp < prevMsg.Timestamp {
		return rejected(ReasonTimeRegression), nil
	}

	return accepted(), nil
}

// State is the chain position of one feed: empty, or linked to the last
// accepted frame. It exists for callers that prefer threading an explicit
// state value over passing the previous frame by hand.
type State struct {
	last *wire.Frame
}

// Empty is the state of a feed with no accepted frames.
func Empty() State { return State{} }

// Linked is the state of a feed whose last accepted frame is f.
func Linked(f *wire.Frame) State { return State{last: f} }

// Last returns the last accepted frame, or nil for an empty feed.
func (s State) Last() *wire.Frame { return s.last }

// Advance validates candidate against s and, on acceptance, returns the
// advanced state. On rejection the state is returned unchanged.
func (s State) Advance(candidate *wire.Frame) (State, Result, error) {
	res, err := Validate(candidate, s.last)
	if err != nil || !res.Accepted {
		return s, res, err
	}
	return Linked(candidate), res, nil
}
