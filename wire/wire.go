// Package wire implements the canonical binary encoding of kutyus messages
// and frames (format v1).
//
// The encoding is MessagePack with a fixed layout, so the same logical value
// always produces identical bytes:
//
//	Message = array[5]:
//	  1. author        bin  (raw public key bytes)
//	  2. parent        array[0] (genesis) | array[1]{ bin64 digest }
//	  3. meta          array[2]{ uint64 sequence, uint64 timestamp }
//	  4. content-type  bin  (single byte 0x00 means opaque blob)
//	  5. content       bin
//
//	Frame = array[4]:
//	  1. version       uint64 (always 1)
//	  2. id            bin64  (SHA-512 of the canonical message bytes)
//	  3. message       bin    (canonical message bytes, verbatim)
//	  4. signature     bin
//
// Integers are encoded with fixed-width uint64 headers and byte strings with
// minimal-width bin headers. Decoders reject any input whose re-encoding does
// not reproduce the input bytes, so there is exactly one accepted encoding
// per logical value.
package wire

import (
	"bytes"

	"kutyus.dev/kutyus/digestutil"
)

// FormatVersion is the frame format version this package reads and writes.
// Changing the canonical layout requires bumping it.
const FormatVersion = 1

// ContentType tags how a message's content should be interpreted.
// The single byte 0x00 is reserved for opaque blobs; anything else is an
// application-specific tag.
type ContentType []byte

// ContentTypeBlob is the opaque payload tag.
var ContentTypeBlob = ContentType{0x00}

// IsBlob reports whether ct is the opaque blob tag.
func (ct ContentType) IsBlob() bool {
	return len(ct) == 1 && ct[0] == 0x00
}

// Message is the logical content unit of a feed.
type Message struct {
	// Author is the feed owner's raw public key. The signature scheme is
	// inferred from its length (see package sign).
	Author []byte

	// Parent is the SHA-512 digest of the preceding frame's canonical bytes.
	// The zero digest marks a feed's first message.
	Parent digestutil.Digest

	// Sequence starts at 1 and increments by exactly 1 per message.
	Sequence uint64

	// Timestamp is a per-feed monotonically non-decreasing clock value
	// (conventionally Unix milliseconds).
	Timestamp uint64

	ContentType ContentType
	Content     []byte
}

// Equal reports whether two messages are logically identical.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	return bytes.Equal(m.Author, o.Author) &&
		m.Parent == o.Parent &&
		m.Sequence == o.Sequence &&
		m.Timestamp == o.Timestamp &&
		bytes.Equal(m.ContentType, o.ContentType) &&
		bytes.Equal(m.Content, o.Content)
}

// Frame is the signed, transmittable unit wrapping one message.
//
// MessageBytes holds the canonical message encoding verbatim. Keeping the
// exact bytes (rather than re-encoding the decoded message) is what makes
// the id and signature reproducible by any party at any later time.
type Frame struct {
	Version uint64

	// ID is the SHA-512 digest of MessageBytes.
	ID digestutil.Digest

	// MessageBytes is the canonical encoding of the wrapped message.
	MessageBytes []byte

	// Signature covers SigningScope(ID, MessageBytes) under the author's key.
	Signature []byte

	msg *Message
}

// Message returns the decoded view of MessageBytes. The result is cached;
// MessageBytes stays authoritative for all cryptographic operations.
func (f *Frame) Message() (*Message, error) {
	if f.msg != nil {
		return f.msg, nil
	}
	m, err := DecodeMessage(f.MessageBytes)
	if err != nil {
		return nil, err
	}
	f.msg = m
	return m, nil
}

// Digest returns the SHA-512 digest of the frame's canonical encoding,
// signature included. This is the value the next message in the feed must
// carry as its parent link, binding the chain to signed history.
func (f *Frame) Digest() (digestutil.Digest, error) {
	b, err := EncodeFrame(f)
	if err != nil {
		return digestutil.Digest{}, err
	}
	return digestutil.Sum(b), nil
}
