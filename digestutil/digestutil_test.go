package digestutil

import (
	"strings"
	"testing"
)

func TestSumStable(t *testing.T) {
	data := []byte("kutyus digest fixture")
	first := Sum(data)
	for i := 0; i < 5; i++ {
		if Sum(data) != first {
			t.Fatalf("digest not stable")
		}
	}
}

func TestSumSensitive(t *testing.T) {
	a := Sum([]byte("frame-a"))
	b := Sum([]byte("frame-b"))
	if a == b {
		t.Fatalf("distinct inputs produced equal digests")
	}
}

func TestZeroSentinel(t *testing.T) {
	var zero Digest
	if !zero.IsZero() {
		t.Fatalf("zero digest must be the sentinel")
	}
	if Sum([]byte{}).IsZero() {
		t.Fatalf("digest of empty input must not be the sentinel")
	}
}

func TestFromBytes(t *testing.T) {
	d := Sum([]byte("round trip"))
	got, err := FromBytes(d[:])
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != d {
		t.Fatalf("FromBytes mismatch")
	}

	if _, err := FromBytes(d[:32]); err == nil {
		t.Fatalf("FromBytes must reject short input")
	}
}

func TestCIDv1RawSHA512(t *testing.T) {
	data := []byte("content addressed bytes")
	s := CIDv1RawSHA512(data)
	if s == "" {
		t.Fatalf("empty CID string")
	}
	if !strings.HasPrefix(s, "b") {
		t.Fatalf("expected base32 CIDv1, got %q", s)
	}

	id, err := CIDv1RawSHA512CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA512CID: %v", err)
	}
	if id.String() != s {
		t.Fatalf("CID mismatch: %s vs %s", id, s)
	}
	if CIDv1RawSHA512([]byte("other bytes")) == s {
		t.Fatalf("distinct inputs produced equal CIDs")
	}
}
