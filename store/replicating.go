package store

import (
	"fmt"

	"kutyus.dev/kutyus/wire"
)

// ReplicatingStore appends to all configured backends.
//
// Reads fall back in order. Appends go to every backend; if any backend
// rejects or fails, the error is returned and the backends may diverge by at
// most the frames the caller retries. Because every backend validates the
// same chain rules over the same bytes, a frame accepted by one backend is
// accepted by all of them from equal prior state.
type ReplicatingStore struct {
	Backends []NamedStore
}

var _ FeedStore = (*ReplicatingStore)(nil)

func (r *ReplicatingStore) Append(f *wire.Frame) error {
	if len(r.Backends) == 0 {
		return fmt.Errorf("store: ReplicatingStore has no backends")
	}
	for _, b := range r.Backends {
		if err := b.Store.Append(f); err != nil {
			return fmt.Errorf("store: backend %q: %w", b.Name, err)
		}
	}
	return nil
}

func (r *ReplicatingStore) Latest(author []byte) (*wire.Frame, error) {
	return r.readFallback(func(s FeedStore) (*wire.Frame, error) {
		return s.Latest(author)
	})
}

func (r *ReplicatingStore) Get(author []byte, sequence uint64) (*wire.Frame, error) {
	return r.readFallback(func(s FeedStore) (*wire.Frame, error) {
		return s.Get(author, sequence)
	})
}

func (r *ReplicatingStore) Authors() ([][]byte, error) {
	if len(r.Backends) == 0 {
		return nil, fmt.Errorf("store: ReplicatingStore has no backends")
	}
	return r.Backends[0].Store.Authors()
}

func (r *ReplicatingStore) Iterate(author []byte, fromSequence uint64) (Iterator, error) {
	if len(r.Backends) == 0 {
		return nil, fmt.Errorf("store: ReplicatingStore has no backends")
	}
	return r.Backends[0].Store.Iterate(author, fromSequence)
}

func (r *ReplicatingStore) readFallback(read func(FeedStore) (*wire.Frame, error)) (*wire.Frame, error) {
	if len(r.Backends) == 0 {
		return nil, fmt.Errorf("store: ReplicatingStore has no backends")
	}
	for _, b := range r.Backends {
		f, err := read(b.Store)
		if err == nil {
			return f, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, fmt.Errorf("store: backend %q: %w", b.Name, err)
	}
	return nil, ErrNotFound
}
