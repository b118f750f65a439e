package wire

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"kutyus.dev/kutyus/digestutil"
)

// EncodeMessage returns the canonical encoding of m.
//
// Encoding is deterministic: the same logical message always yields the same
// bytes. Messages violating field constraints fail with a Malformed error.
func EncodeMessage(m *Message) ([]byte, error) {
	if m == nil {
		return nil, newError(KindMalformed, "KU-WIRE-001", "nil message")
	}
	if len(m.Author) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-002", "message author is required")
	}
	if m.Sequence < 1 {
		return nil, newError(KindMalformed, "KU-WIRE-003", "message sequence must be >= 1")
	}
	if len(m.ContentType) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-004", "message content type is required")
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeArrayLen(5); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode message", err)
	}
	if err := enc.EncodeBytes(m.Author); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode author", err)
	}
	if err := encodeParent(enc, m.Parent); err != nil {
		return nil, err
	}
	if err := enc.EncodeArrayLen(2); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode meta", err)
	}
	if err := enc.EncodeUint64(m.Sequence); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode sequence", err)
	}
	if err := enc.EncodeUint64(m.Timestamp); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode timestamp", err)
	}
	if err := enc.EncodeBytes(m.ContentType); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode content type", err)
	}
	if err := enc.EncodeBytes(notNil(m.Content)); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-010", "encode content", err)
	}

	return buf.Bytes(), nil
}

// encodeParent writes the optional parent digest as a zero- or one-element
// array. The zero digest is the genesis sentinel and encodes as array[0].
func encodeParent(enc *msgpack.Encoder, parent digestutil.Digest) error {
	if parent.IsZero() {
		if err := enc.EncodeArrayLen(0); err != nil {
			return wrapError(KindEncoding, "KU-WIRE-010", "encode parent", err)
		}
		return nil
	}
	if err := enc.EncodeArrayLen(1); err != nil {
		return wrapError(KindEncoding, "KU-WIRE-010", "encode parent", err)
	}
	if err := enc.EncodeBytes(parent[:]); err != nil {
		return wrapError(KindEncoding, "KU-WIRE-010", "encode parent digest", err)
	}
	return nil
}

// EncodeFrame returns the canonical encoding of f.
func EncodeFrame(f *Frame) ([]byte, error) {
	if f == nil {
		return nil, newError(KindMalformed, "KU-WIRE-005", "nil frame")
	}
	if f.Version != FormatVersion {
		return nil, newError(KindMalformed, "KU-WIRE-006", "unsupported frame version")
	}
	if len(f.MessageBytes) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-007", "frame message bytes are required")
	}
	if len(f.Signature) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-008", "frame signature is required")
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeArrayLen(4); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-011", "encode frame", err)
	}
	if err := enc.EncodeUint64(f.Version); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-011", "encode version", err)
	}
	if err := enc.EncodeBytes(f.ID[:]); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-011", "encode id", err)
	}
	if err := enc.EncodeBytes(f.MessageBytes); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-011", "encode message bytes", err)
	}
	if err := enc.EncodeBytes(f.Signature); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-011", "encode signature", err)
	}

	return buf.Bytes(), nil
}

// SigningScope returns the canonical bytes covered by a frame signature:
// array[2]{ bin64 id, bin message bytes }. The signature itself is never
// part of its own scope.
func SigningScope(id digestutil.Digest, messageBytes []byte) ([]byte, error) {
	if len(messageBytes) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-007", "frame message bytes are required")
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(2); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-012", "encode signing scope", err)
	}
	if err := enc.EncodeBytes(id[:]); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-012", "encode scope id", err)
	}
	if err := enc.EncodeBytes(messageBytes); err != nil {
		return nil, wrapError(KindEncoding, "KU-WIRE-012", "encode scope message", err)
	}
	return buf.Bytes(), nil
}

func notNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
