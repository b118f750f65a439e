package grpcstore

import (
	"bytes"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// Get requests are array[2]{ bin author, uint64 sequence }, encoded with the
// same msgpack primitives as the frame format. This keeps the service free
// of generated protobuf messages.

func encodeGetRequest(author []byte, sequence uint64) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(2); err != nil {
		return nil, err
	}
	if err := enc.EncodeBytes(author); err != nil {
		return nil, err
	}
	if err := enc.EncodeUint64(sequence); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGetRequest(data []byte) (author []byte, sequence uint64, err error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, 0, err
	}
	if n != 2 {
		return nil, 0, errors.New("grpcstore: get request must be an array of 2 elements")
	}
	author, err = dec.DecodeBytes()
	if err != nil {
		return nil, 0, err
	}
	sequence, err = dec.DecodeUint64()
	if err != nil {
		return nil, 0, err
	}
	return author, sequence, nil
}

// Authors responses are an array of bin author keys.

func encodeAuthorsResponse(authors [][]byte) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(len(authors)); err != nil {
		return nil, err
	}
	for _, author := range authors {
		if err := enc.EncodeBytes(author); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeAuthorsResponse(data []byte) ([][]byte, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.New("grpcstore: authors response must be an array")
	}
	authors := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		author, err := dec.DecodeBytes()
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, nil
}
