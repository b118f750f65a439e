// Package testkit provides a conformance suite every FeedStore backend must
// pass.
package testkit

import (
	"bytes"
	"testing"

	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/feed"
	"kutyus.dev/kutyus/sign"
	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/wire"
)

// NewStore constructs a fresh, empty FeedStore instance for a test.
// The returned store MUST be isolated from other tests.
type NewStore func(t *testing.T) store.FeedStore

// Signer returns a deterministic test identity. Distinct seed bytes yield
// distinct authors.
func Signer(t *testing.T, seedByte byte) sign.Signer {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = seedByte
	}
	s, err := sign.NewEd25519SignerFromSeed(seed)
	if err != nil {
		t.Fatalf("NewEd25519SignerFromSeed failed: %v", err)
	}
	return s
}

// Chain builds a validated chain of n frames for signer, contents
// "msg-1".."msg-n", timestamps 1000, 1001, ...
func Chain(t *testing.T, signer sign.Signer, n int) []*wire.Frame {
	t.Helper()
	frames := make([]*wire.Frame, 0, n)
	prev := digestutil.Digest{}
	for i := 1; i <= n; i++ {
		f, err := feed.Build(signer, uint64(i), prev, 1000+uint64(i)-1, nil, []byte("msg-"+string(rune('0'+i))))
		if err != nil {
			t.Fatalf("Build(%d) failed: %v", i, err)
		}
		frames = append(frames, f)
		prev, err = f.Digest()
		if err != nil {
			t.Fatalf("Digest(%d) failed: %v", i, err)
		}
	}
	return frames
}

// RunFeedStoreConformance runs the FeedStore contract checks against the
// backend produced by newStore.
func RunFeedStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("AppendLatestGet", func(t *testing.T) {
		s := newStore(t)
		signer := Signer(t, 1)
		frames := Chain(t, signer, 3)

		for i, f := range frames {
			if err := s.Append(f); err != nil {
				t.Fatalf("Append(%d) failed: %v", i+1, err)
			}
		}

		latest, err := s.Latest(signer.Public())
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if !bytes.Equal(latest.MessageBytes, frames[2].MessageBytes) {
			t.Fatalf("Latest returned wrong frame")
		}

		for i, want := range frames {
			got, err := s.Get(signer.Public(), uint64(i+1))
			if err != nil {
				t.Fatalf("Get(%d) failed: %v", i+1, err)
			}
			gotBytes, err := wire.EncodeFrame(got)
			if err != nil {
				t.Fatalf("EncodeFrame(got %d) failed: %v", i+1, err)
			}
			wantBytes, err := wire.EncodeFrame(want)
			if err != nil {
				t.Fatalf("EncodeFrame(want %d) failed: %v", i+1, err)
			}
			if !bytes.Equal(gotBytes, wantBytes) {
				t.Fatalf("Get(%d): stored frame bytes not reproducible", i+1)
			}
		}
	})

	t.Run("IterateOrdered", func(t *testing.T) {
		s := newStore(t)
		signer := Signer(t, 2)
		frames := Chain(t, signer, 5)
		for i, f := range frames {
			if err := s.Append(f); err != nil {
				t.Fatalf("Append(%d) failed: %v", i+1, err)
			}
		}

		it, err := s.Iterate(signer.Public(), 2)
		if err != nil {
			t.Fatalf("Iterate failed: %v", err)
		}
		var seqs []uint64
		for it.Next() {
			msg, err := it.Frame().Message()
			if err != nil {
				t.Fatalf("Message failed: %v", err)
			}
			seqs = append(seqs, msg.Sequence)
		}
		if err := it.Err(); err != nil {
			t.Fatalf("iterator error: %v", err)
		}
		if len(seqs) != 4 {
			t.Fatalf("Iterate returned %d frames, want 4", len(seqs))
		}
		for i, seq := range seqs {
			if seq != uint64(i+2) {
				t.Fatalf("Iterate out of order: got %v", seqs)
			}
		}
	})

	t.Run("GapRejected", func(t *testing.T) {
		s := newStore(t)
		signer := Signer(t, 3)
		frames := Chain(t, signer, 3)
		if err := s.Append(frames[0]); err != nil {
			t.Fatalf("Append(1) failed: %v", err)
		}
		err := s.Append(frames[2])
		reason, ok := store.Rejected(err)
		if !ok {
			t.Fatalf("Append(3) after 1: got err=%v want RejectedError", err)
		}
		if reason != feed.ReasonSequenceGap {
			t.Fatalf("Append(3) after 1: got reason %q want %q", reason, feed.ReasonSequenceGap)
		}
	})

	t.Run("NonGenesisFirstRejected", func(t *testing.T) {
		s := newStore(t)
		signer := Signer(t, 4)
		frames := Chain(t, signer, 2)
		err := s.Append(frames[1])
		reason, ok := store.Rejected(err)
		if !ok {
			t.Fatalf("Append(2) on empty feed: got err=%v want RejectedError", err)
		}
		if reason != feed.ReasonInvalidGenesis {
			t.Fatalf("got reason %q want %q", reason, feed.ReasonInvalidGenesis)
		}
	})

	t.Run("ReplayRejected", func(t *testing.T) {
		s := newStore(t)
		signer := Signer(t, 5)
		frames := Chain(t, signer, 1)
		if err := s.Append(frames[0]); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		err := s.Append(frames[0])
		if _, ok := store.Rejected(err); !ok {
			t.Fatalf("replayed Append: got err=%v want RejectedError", err)
		}
	})

	t.Run("DistinctFeedsIndependent", func(t *testing.T) {
		s := newStore(t)
		a := Signer(t, 6)
		b := Signer(t, 7)
		for _, f := range Chain(t, a, 2) {
			if err := s.Append(f); err != nil {
				t.Fatalf("Append(a) failed: %v", err)
			}
		}
		for _, f := range Chain(t, b, 3) {
			if err := s.Append(f); err != nil {
				t.Fatalf("Append(b) failed: %v", err)
			}
		}

		la, err := s.Latest(a.Public())
		if err != nil {
			t.Fatalf("Latest(a) failed: %v", err)
		}
		ma, err := la.Message()
		if err != nil {
			t.Fatalf("Message(a) failed: %v", err)
		}
		if ma.Sequence != 2 {
			t.Fatalf("Latest(a) sequence: got %d want 2", ma.Sequence)
		}

		lb, err := s.Latest(b.Public())
		if err != nil {
			t.Fatalf("Latest(b) failed: %v", err)
		}
		mb, err := lb.Message()
		if err != nil {
			t.Fatalf("Message(b) failed: %v", err)
		}
		if mb.Sequence != 3 {
			t.Fatalf("Latest(b) sequence: got %d want 3", mb.Sequence)
		}
	})

	t.Run("Authors", func(t *testing.T) {
		s := newStore(t)
		if authors, err := s.Authors(); err != nil || len(authors) != 0 {
			t.Fatalf("Authors on empty store: %v, %v", authors, err)
		}

		a := Signer(t, 9)
		b := Signer(t, 10)
		for _, signer := range []sign.Signer{a, b} {
			for _, f := range Chain(t, signer, 1) {
				if err := s.Append(f); err != nil {
					t.Fatalf("Append failed: %v", err)
				}
			}
		}

		authors, err := s.Authors()
		if err != nil {
			t.Fatalf("Authors failed: %v", err)
		}
		if len(authors) != 2 {
			t.Fatalf("Authors returned %d keys, want 2", len(authors))
		}
		seen := map[string]bool{}
		for _, author := range authors {
			seen[string(author)] = true
		}
		if !seen[string(a.Public())] || !seen[string(b.Public())] {
			t.Fatalf("Authors missing an appended author")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newStore(t)
		signer := Signer(t, 8)

		if _, err := s.Latest(signer.Public()); !store.IsNotFound(err) {
			t.Fatalf("Latest on empty feed: got err=%v want ErrNotFound", err)
		}
		if _, err := s.Get(signer.Public(), 1); !store.IsNotFound(err) {
			t.Fatalf("Get on empty feed: got err=%v want ErrNotFound", err)
		}

		frames := Chain(t, signer, 1)
		if err := s.Append(frames[0]); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if _, err := s.Get(signer.Public(), 2); !store.IsNotFound(err) {
			t.Fatalf("Get(2): got err=%v want ErrNotFound", err)
		}
	})
}
