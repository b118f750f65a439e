// Package store defines the persistence contract for validated feeds.
//
// A FeedStore durably keeps the frames of any number of feeds, ordered by
// sequence per author. Implementations validate every frame inside their own
// atomic append path (read last state, validate, append), so a stored feed
// is always a gap-free, signed, linear chain.
package store

import "kutyus.dev/kutyus/wire"

// FeedStore is the minimal persistence interface the core needs from a
// storage backend.
//
// Contract:
//   - Append MUST validate the frame against the author's stored chain state
//     and fail with a RejectedError when validation rejects it.
//   - Append MUST serialize append attempts per author.
//   - Stored frame bytes MUST be immutable and reproduce the canonical
//     encoding exactly, so frames can be re-validated at any later time.
//   - Latest and Get MUST return ErrNotFound when no frame matches.
type FeedStore interface {
	Append(f *wire.Frame) error
	Latest(author []byte) (*wire.Frame, error)
	Get(author []byte, sequence uint64) (*wire.Frame, error)
	// Iterate returns the author's frames from fromSequence upward, ordered
	// by sequence ascending. Iterators are finite and restartable.
	Iterate(author []byte, fromSequence uint64) (Iterator, error)
	// Authors lists the public keys of all feeds with at least one frame.
	// Order is unspecified.
	Authors() ([][]byte, error)
}

// Iterator walks frames in sequence order. Usage follows bufio.Scanner:
//
//	it, err := s.Iterate(author, 1)
//	for it.Next() {
//		f := it.Frame()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator interface {
	Next() bool
	Frame() *wire.Frame
	Err() error
}

// NamedStore associates a FeedStore with a stable backend name, for
// multi-backend orchestration that needs per-backend reporting.
type NamedStore struct {
	Name  string
	Store FeedStore
}
