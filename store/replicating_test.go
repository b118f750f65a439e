package store_test

import (
	"bytes"
	"testing"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/memory"
	"kutyus.dev/kutyus/store/testkit"
)

func newReplicating(backends ...store.FeedStore) *store.ReplicatingStore {
	r := &store.ReplicatingStore{}
	for i, b := range backends {
		r.Backends = append(r.Backends, store.NamedStore{
			Name:  string(rune('a' + i)),
			Store: b,
		})
	}
	return r
}

func TestReplicatingConformance(t *testing.T) {
	testkit.RunFeedStoreConformance(t, func(t *testing.T) store.FeedStore {
		return newReplicating(memory.New(), memory.New())
	})
}

func TestReplicatingAppendsToAll(t *testing.T) {
	a := memory.New()
	b := memory.New()
	r := newReplicating(a, b)

	signer := testkit.Signer(t, 1)
	frames := testkit.Chain(t, signer, 2)
	for i, f := range frames {
		if err := r.Append(f); err != nil {
			t.Fatalf("Append(%d): %v", i+1, err)
		}
	}

	for _, backend := range []store.FeedStore{a, b} {
		latest, err := backend.Latest(signer.Public())
		if err != nil {
			t.Fatalf("backend Latest: %v", err)
		}
		if !bytes.Equal(latest.MessageBytes, frames[1].MessageBytes) {
			t.Fatal("backend missing replicated frame")
		}
	}
}

func TestReplicatingReadFallback(t *testing.T) {
	empty := memory.New()
	full := memory.New()

	signer := testkit.Signer(t, 2)
	frames := testkit.Chain(t, signer, 1)
	if err := full.Append(frames[0]); err != nil {
		t.Fatalf("Append: %v", err)
	}

	r := newReplicating(empty, full)
	latest, err := r.Latest(signer.Public())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !bytes.Equal(latest.MessageBytes, frames[0].MessageBytes) {
		t.Fatal("fallback read returned wrong frame")
	}
}

func TestReplicatingNoBackends(t *testing.T) {
	r := &store.ReplicatingStore{}
	signer := testkit.Signer(t, 3)
	frames := testkit.Chain(t, signer, 1)

	if err := r.Append(frames[0]); err == nil {
		t.Fatal("Append with no backends should fail")
	}
	if _, err := r.Latest(signer.Public()); err == nil {
		t.Fatal("Latest with no backends should fail")
	}
}
