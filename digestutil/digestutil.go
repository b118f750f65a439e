// Package digestutil provides the digest primitives used for content
// addressing and chain linking: raw SHA-512 digests over canonical bytes,
// and IPFS-compatible CIDv1 identifiers derived from the same bytes for
// storage backends.
package digestutil

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Size is the width of a Digest in bytes (SHA-512).
const Size = sha512.Size

// Digest is the SHA-512 digest of a canonical byte string.
//
// The zero Digest is the genesis sentinel: a feed's first message carries it
// as its previous-frame link.
type Digest [Size]byte

// Sum returns the SHA-512 digest of data.
func Sum(data []byte) Digest {
	return sha512.Sum512(data)
}

// FromBytes copies a 64-byte slice into a Digest.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("digestutil: digest must be %d bytes, got %d", Size, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// IsZero reports whether d is the genesis sentinel.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// CIDv1RawSHA512 returns a CIDv1 string using the "raw" multicodec
// and a sha2-512 multihash.
func CIDv1RawSHA512(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_512, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_512 and -1
		// length, this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// CIDv1RawSHA512CID returns a CIDv1 (raw + sha2-512) derived from data.
func CIDv1RawSHA512CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_512, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
