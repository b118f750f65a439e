package wire

import (
	"bytes"
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"kutyus.dev/kutyus/digestutil"
)

// DecodeMessage parses canonical message bytes.
//
// Inputs that end early fail with a Truncated error; structurally invalid or
// non-canonical inputs fail with an Encoding error; well-formed inputs whose
// field values violate message constraints fail with a Malformed error.
func DecodeMessage(data []byte) (*Message, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, decodeErr("KU-WIRE-101", "message envelope", err)
	}
	if n != 5 {
		return nil, newError(KindEncoding, "KU-WIRE-102", "message must be an array of 5 elements")
	}

	author, err := dec.DecodeBytes()
	if err != nil {
		return nil, decodeErr("KU-WIRE-103", "message author", err)
	}
	if len(author) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-104", "message author is required")
	}

	parent, err := decodeParent(dec)
	if err != nil {
		return nil, err
	}

	metaLen, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, decodeErr("KU-WIRE-107", "message meta", err)
	}
	if metaLen != 2 {
		return nil, newError(KindEncoding, "KU-WIRE-108", "message meta must be an array of 2 elements")
	}
	sequence, err := dec.DecodeUint64()
	if err != nil {
		return nil, decodeErr("KU-WIRE-109", "message sequence", err)
	}
	if sequence < 1 {
		return nil, newError(KindMalformed, "KU-WIRE-110", "message sequence must be >= 1")
	}
	timestamp, err := dec.DecodeUint64()
	if err != nil {
		return nil, decodeErr("KU-WIRE-111", "message timestamp", err)
	}

	contentType, err := dec.DecodeBytes()
	if err != nil {
		return nil, decodeErr("KU-WIRE-112", "message content type", err)
	}
	if len(contentType) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-113", "message content type is required")
	}

	content, err := dec.DecodeBytes()
	if err != nil {
		return nil, decodeErr("KU-WIRE-114", "message content", err)
	}

	m := &Message{
		Author:      author,
		Parent:      parent,
		Sequence:    sequence,
		Timestamp:   timestamp,
		ContentType: contentType,
		Content:     notNil(content),
	}

	// There is exactly one accepted encoding per logical message. Re-encoding
	// the decoded value must reproduce the input byte for byte; this rejects
	// both trailing garbage and non-minimal msgpack headers.
	canon, err := EncodeMessage(m)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canon, data) {
		return nil, newError(KindEncoding, "KU-WIRE-115", "non-canonical message encoding")
	}

	return m, nil
}

// decodeParent reads the optional parent digest: array[0] for the genesis
// sentinel, array[1]{ bin64 } otherwise.
func decodeParent(dec *msgpack.Decoder) (digestutil.Digest, error) {
	var parent digestutil.Digest

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return parent, decodeErr("KU-WIRE-105", "message parent", err)
	}
	switch n {
	case 0:
		return parent, nil
	case 1:
		b, err := dec.DecodeBytes()
		if err != nil {
			return parent, decodeErr("KU-WIRE-105", "message parent digest", err)
		}
		if len(b) != digestutil.Size {
			return parent, newError(KindMalformed, "KU-WIRE-106", "parent digest must be 64 bytes")
		}
		copy(parent[:], b)
		if parent.IsZero() {
			// The sentinel has exactly one encoding: the empty array.
			return parent, newError(KindEncoding, "KU-WIRE-115", "non-canonical message encoding")
		}
		return parent, nil
	default:
		return parent, newError(KindEncoding, "KU-WIRE-105", "message parent must be an array of 0 or 1 elements")
	}
}

// DecodeFrame parses canonical frame bytes. The wrapped message is decoded
// and validated as part of frame decoding.
func DecodeFrame(data []byte) (*Frame, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, decodeErr("KU-WIRE-201", "frame envelope", err)
	}
	if n != 4 {
		return nil, newError(KindEncoding, "KU-WIRE-202", "frame must be an array of 4 elements")
	}

	version, err := dec.DecodeUint64()
	if err != nil {
		return nil, decodeErr("KU-WIRE-203", "frame version", err)
	}
	if version != FormatVersion {
		return nil, newError(KindMalformed, "KU-WIRE-204", "unsupported frame version")
	}

	idBytes, err := dec.DecodeBytes()
	if err != nil {
		return nil, decodeErr("KU-WIRE-205", "frame id", err)
	}
	id, err := digestutil.FromBytes(idBytes)
	if err != nil {
		return nil, newError(KindMalformed, "KU-WIRE-206", "frame id must be 64 bytes")
	}

	messageBytes, err := dec.DecodeBytes()
	if err != nil {
		return nil, decodeErr("KU-WIRE-207", "frame message bytes", err)
	}

	signature, err := dec.DecodeBytes()
	if err != nil {
		return nil, decodeErr("KU-WIRE-208", "frame signature", err)
	}
	if len(signature) == 0 {
		return nil, newError(KindMalformed, "KU-WIRE-209", "frame signature is required")
	}

	msg, err := DecodeMessage(messageBytes)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		Version:      version,
		ID:           id,
		MessageBytes: messageBytes,
		Signature:    signature,
		msg:          msg,
	}

	canon, err := EncodeFrame(f)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canon, data) {
		return nil, newError(KindEncoding, "KU-WIRE-210", "non-canonical frame encoding")
	}

	return f, nil
}

// decodeErr classifies a msgpack decoder failure: inputs that ran out of
// bytes are retryable Truncated errors, everything else is a permanent
// Encoding error.
func decodeErr(ruleID, what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapError(KindTruncated, ruleID, "truncated input reading "+what, err)
	}
	return wrapError(KindEncoding, ruleID, "invalid encoding reading "+what, err)
}
