// Package sign isolates the signature schemes behind a small capability
// interface so the scheme can be swapped without touching chain validation.
//
// Two schemes are supported:
//
//   - ed25519: the default scheme; signs sha512(scope)
//   - dilithium3: post-quantum scheme; signs sha3-256(scope)
//
// The wire format carries raw public key bytes; the scheme is inferred from
// the key length (32 bytes for ed25519, the dilithium3 public key size
// otherwise). Signing the digest of the scope rather than the raw scope
// keeps the signed payload fixed-width regardless of content size.
package sign

import (
	"crypto/ed25519"
	"crypto/sha512"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

const (
	SchemeEd25519    = "ed25519"
	SchemeDilithium3 = "dilithium3"
)

// ErrUnknownScheme is returned when a public key's length matches no
// supported signature scheme.
var ErrUnknownScheme = errors.New("sign: unknown signature scheme")

// Signer is the private signing capability of a feed author.
type Signer interface {
	// Scheme names the signature scheme.
	Scheme() string

	// Public returns the raw public key bytes used as the author identifier.
	Public() []byte

	// Sign signs the given scope bytes (digesting them per the scheme).
	Sign(scope []byte) ([]byte, error)
}

// SchemeFor infers the signature scheme from raw public key bytes.
func SchemeFor(pub []byte) (string, error) {
	switch len(pub) {
	case ed25519.PublicKeySize:
		return SchemeEd25519, nil
	case mode3.PublicKeySize:
		return SchemeDilithium3, nil
	default:
		return "", fmt.Errorf("%w: public key length %d", ErrUnknownScheme, len(pub))
	}
}

// Verify checks sig over scope under the given raw public key.
//
// Verification failure is a boolean, not an error: malformed keys and
// signatures verify as false. Chain validation turns false into a rejection
// with a reason code.
func Verify(pub, scope, sig []byte) bool {
	scheme, err := SchemeFor(pub)
	if err != nil {
		return false
	}
	switch scheme {
	case SchemeEd25519:
		if len(sig) != ed25519.SignatureSize {
			return false
		}
		digest := sha512.Sum512(scope)
		return ed25519.Verify(ed25519.PublicKey(pub), digest[:], sig)
	case SchemeDilithium3:
		if len(sig) != mode3.SignatureSize {
			return false
		}
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return false
		}
		digest := sha3.Sum256(scope)
		return mode3.Verify(&pk, digest[:], sig)
	default:
		return false
	}
}
