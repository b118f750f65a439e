package feed

import (
	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/sign"
	"kutyus.dev/kutyus/wire"
)

// Build assembles and signs a frame for the next position in a feed.
//
// The builder does not consult feed history: the caller supplies the digest
// of the previously accepted frame (zero for sequence 1). It does enforce
// what it can check locally, namely that the sentinel and the sequence
// number agree.
func Build(signer sign.Signer, sequence uint64, previous digestutil.Digest, timestamp uint64, contentType wire.ContentType, content []byte) (*wire.Frame, error) {
	if sequence < 1 {
		return nil, ErrInvalidSequence
	}
	if sequence == 1 && !previous.IsZero() {
		return nil, ErrPreviousDigest
	}
	if sequence > 1 && previous.IsZero() {
		return nil, ErrPreviousDigest
	}
	if len(contentType) == 0 {
		contentType = wire.ContentTypeBlob
	}

	msg := &wire.Message{
		Author:      signer.Public(),
		Parent:      previous,
		Sequence:    sequence,
		Timestamp:   timestamp,
		ContentType: contentType,
		Content:     content,
	}
	messageBytes, err := wire.EncodeMessage(msg)
	if err != nil {
		return nil, err
	}

	id := digestutil.Sum(messageBytes)
	scope, err := wire.SigningScope(id, messageBytes)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(scope)
	if err != nil {
		return nil, err
	}

	return &wire.Frame{
		Version:      wire.FormatVersion,
		ID:           id,
		MessageBytes: messageBytes,
		Signature:    sig,
	}, nil
}

// Next builds the frame following prev in the same feed, deriving sequence
// and parent digest from prev.
func Next(signer sign.Signer, prev *wire.Frame, timestamp uint64, contentType wire.ContentType, content []byte) (*wire.Frame, error) {
	prevMsg, err := prev.Message()
	if err != nil {
		return nil, err
	}
	prevDigest, err := prev.Digest()
	if err != nil {
		return nil, err
	}
	return Build(signer, prevMsg.Sequence+1, prevDigest, timestamp, contentType, content)
}
