package sign

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"
	"io"
)

// Ed25519Signer signs with an ed25519 private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// GenerateEd25519 creates a fresh keypair from rand.
func GenerateEd25519(rand io.Reader) (*Ed25519Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{priv: priv}, nil
}

// NewEd25519Signer wraps an existing private key.
func NewEd25519Signer(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("sign: ed25519 private key must be %d bytes, got %d",
			ed25519.PrivateKeySize, len(priv))
	}
	return &Ed25519Signer{priv: priv}, nil
}

// NewEd25519SignerFromSeed derives a signer from a 32-byte seed.
// Useful for deterministic test identities.
func NewEd25519SignerFromSeed(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("sign: ed25519 seed must be %d bytes, got %d",
			ed25519.SeedSize, len(seed))
	}
	return &Ed25519Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *Ed25519Signer) Scheme() string { return SchemeEd25519 }

func (s *Ed25519Signer) Public() []byte {
	return []byte(s.priv.Public().(ed25519.PublicKey))
}

// PrivateKey returns the raw private key bytes for keystore persistence.
func (s *Ed25519Signer) PrivateKey() []byte {
	return []byte(s.priv)
}

func (s *Ed25519Signer) Sign(scope []byte) ([]byte, error) {
	digest := sha512.Sum512(scope)
	return ed25519.Sign(s.priv, digest[:]), nil
}
