package wire

import (
	"bytes"
	"testing"

	"kutyus.dev/kutyus/digestutil"
)

func testMessage() *Message {
	return &Message{
		Author:      bytes.Repeat([]byte{0x01}, 32),
		Sequence:    1,
		Timestamp:   1000,
		ContentType: ContentTypeBlob,
		Content:     []byte("hello"),
	}
}

func testChildMessage() *Message {
	m := testMessage()
	m.Sequence = 2
	m.Timestamp = 1001
	m.Parent = digestutil.Sum([]byte("previous frame bytes"))
	m.ContentType = ContentType("text/plain")
	m.Content = []byte("world")
	return m
}

func TestMessageRoundTrip(t *testing.T) {
	for name, m := range map[string]*Message{
		"genesis": testMessage(),
		"child":   testChildMessage(),
		"empty content": {
			Author:      bytes.Repeat([]byte{0x02}, 32),
			Sequence:    1,
			Timestamp:   0,
			ContentType: ContentTypeBlob,
			Content:     []byte{},
		},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := EncodeMessage(m)
			if err != nil {
				t.Fatalf("EncodeMessage: %v", err)
			}
			got, err := DecodeMessage(b)
			if err != nil {
				t.Fatalf("DecodeMessage: %v", err)
			}
			if !got.Equal(m) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, m)
			}
		})
	}
}

func TestEncodeMessageDeterministic(t *testing.T) {
	m := testChildMessage()
	first, err := EncodeMessage(m)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := EncodeMessage(m)
		if err != nil {
			t.Fatalf("EncodeMessage: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding not deterministic")
		}
	}
}

func TestEncodeMessageRejectsInvalid(t *testing.T) {
	for name, m := range map[string]*Message{
		"nil":              nil,
		"missing author":   {Sequence: 1, ContentType: ContentTypeBlob},
		"zero sequence":    {Author: []byte{1}, Sequence: 0, ContentType: ContentTypeBlob},
		"empty content type": {Author: []byte{1}, Sequence: 1},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := EncodeMessage(m); !IsKind(err, KindMalformed) {
				t.Fatalf("got err=%v want KindMalformed", err)
			}
		})
	}
}

func TestDecodeMessageTruncated(t *testing.T) {
	full, err := EncodeMessage(testChildMessage())
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	// Every proper prefix is a truncated input, not an invalid one.
	for _, cut := range []int{0, 1, len(full) / 2, len(full) - 1} {
		_, err := DecodeMessage(full[:cut])
		if !IsTruncated(err) {
			t.Fatalf("prefix %d: got err=%v want KindTruncated", cut, err)
		}
	}
}

func TestDecodeMessageInvalidEncoding(t *testing.T) {
	valid, err := EncodeMessage(testMessage())
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	t.Run("wrong envelope arity", func(t *testing.T) {
		// fixarray of 2 empty bins.
		_, err := DecodeMessage([]byte{0x92, 0xc4, 0x00, 0xc4, 0x00})
		if !IsKind(err, KindEncoding) {
			t.Fatalf("got err=%v want KindEncoding", err)
		}
	})

	t.Run("trailing garbage", func(t *testing.T) {
		_, err := DecodeMessage(append(append([]byte{}, valid...), 0x00))
		if !IsKind(err, KindEncoding) {
			t.Fatalf("got err=%v want KindEncoding", err)
		}
	})

	t.Run("not msgpack", func(t *testing.T) {
		_, err := DecodeMessage([]byte{0xc1, 0xff, 0xff})
		if err == nil || IsTruncated(err) {
			t.Fatalf("got err=%v want permanent decode error", err)
		}
	})
}

func TestDecodeMessageMalformed(t *testing.T) {
	t.Run("zero sequence", func(t *testing.T) {
		// Encode a valid message, then rebuild it by hand with sequence 0.
		// Easier: encode with sequence 1 and patch the fixed-width uint64.
		m := testMessage()
		b, err := EncodeMessage(m)
		if err != nil {
			t.Fatalf("EncodeMessage: %v", err)
		}
		patched := bytes.Replace(b,
			[]byte{0xcf, 0, 0, 0, 0, 0, 0, 0, 1},
			[]byte{0xcf, 0, 0, 0, 0, 0, 0, 0, 0}, 1)
		if bytes.Equal(patched, b) {
			t.Fatalf("patch did not apply")
		}
		if _, err := DecodeMessage(patched); !IsKind(err, KindMalformed) {
			t.Fatalf("got err=%v want KindMalformed", err)
		}
	})
}

func TestDecodeMessageNonCanonicalSentinel(t *testing.T) {
	// An explicit all-zero parent digest must be rejected; the sentinel
	// encodes only as the empty array.
	m := testChildMessage()
	b, err := EncodeMessage(m)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	zero := bytes.Replace(b, m.Parent[:], make([]byte, digestutil.Size), 1)
	if bytes.Equal(zero, b) {
		t.Fatalf("patch did not apply")
	}
	if _, err := DecodeMessage(zero); !IsKind(err, KindEncoding) {
		t.Fatalf("got err=%v want KindEncoding", err)
	}
}

func testFrame(t *testing.T) *Frame {
	t.Helper()
	msgBytes, err := EncodeMessage(testMessage())
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	return &Frame{
		Version:      FormatVersion,
		ID:           digestutil.Sum(msgBytes),
		MessageBytes: msgBytes,
		Signature:    bytes.Repeat([]byte{0x2a}, 64),
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := testFrame(t)
	b, err := EncodeFrame(f)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Version != f.Version || got.ID != f.ID ||
		!bytes.Equal(got.MessageBytes, f.MessageBytes) ||
		!bytes.Equal(got.Signature, f.Signature) {
		t.Fatalf("frame round trip mismatch")
	}

	again, err := EncodeFrame(got)
	if err != nil {
		t.Fatalf("EncodeFrame(again): %v", err)
	}
	if !bytes.Equal(b, again) {
		t.Fatalf("re-encoding not byte identical")
	}
}

func TestDecodeFrameRejectsWrongVersion(t *testing.T) {
	f := testFrame(t)
	b, err := EncodeFrame(f)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	patched := bytes.Replace(b,
		[]byte{0xcf, 0, 0, 0, 0, 0, 0, 0, 1},
		[]byte{0xcf, 0, 0, 0, 0, 0, 0, 0, 2}, 1)
	if _, err := DecodeFrame(patched); !IsKind(err, KindMalformed) {
		t.Fatalf("got err=%v want KindMalformed", err)
	}
}

func TestFrameDigestCoversSignature(t *testing.T) {
	f := testFrame(t)
	d1, err := f.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	other := testFrame(t)
	other.Signature = bytes.Repeat([]byte{0x2b}, 64)
	d2, err := other.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("frame digest must change when the signature changes")
	}
}

func TestSigningScopeExcludesSignature(t *testing.T) {
	f := testFrame(t)
	scope, err := SigningScope(f.ID, f.MessageBytes)
	if err != nil {
		t.Fatalf("SigningScope: %v", err)
	}
	if bytes.Contains(scope, f.Signature) {
		t.Fatalf("signing scope must not contain the signature")
	}

	other := testFrame(t)
	other.Signature = bytes.Repeat([]byte{0x2b}, 64)
	scope2, err := SigningScope(other.ID, other.MessageBytes)
	if err != nil {
		t.Fatalf("SigningScope: %v", err)
	}
	if !bytes.Equal(scope, scope2) {
		t.Fatalf("signing scope must be independent of the signature")
	}
}
