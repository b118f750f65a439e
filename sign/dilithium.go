package sign

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

// Dilithium3Signer signs with a Dilithium mode3 private key (post-quantum).
type Dilithium3Signer struct {
	pub  *mode3.PublicKey
	priv *mode3.PrivateKey
}

// GenerateDilithium3 creates a fresh keypair from rand.
func GenerateDilithium3(rand io.Reader) (*Dilithium3Signer, error) {
	pub, priv, err := mode3.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &Dilithium3Signer{pub: pub, priv: priv}, nil
}

// NewDilithium3Signer reconstructs a signer from marshaled key bytes.
func NewDilithium3Signer(pubBytes, privBytes []byte) (*Dilithium3Signer, error) {
	var pub mode3.PublicKey
	if err := pub.UnmarshalBinary(pubBytes); err != nil {
		return nil, fmt.Errorf("sign: invalid dilithium3 public key: %w", err)
	}
	var priv mode3.PrivateKey
	if err := priv.UnmarshalBinary(privBytes); err != nil {
		return nil, fmt.Errorf("sign: invalid dilithium3 private key: %w", err)
	}
	return &Dilithium3Signer{pub: &pub, priv: &priv}, nil
}

func (s *Dilithium3Signer) Scheme() string { return SchemeDilithium3 }

func (s *Dilithium3Signer) Public() []byte {
	b, err := s.pub.MarshalBinary()
	if err != nil {
		// MarshalBinary on a valid key cannot fail.
		return nil
	}
	return b
}

// PrivateKey returns the marshaled private key bytes for keystore persistence.
func (s *Dilithium3Signer) PrivateKey() ([]byte, error) {
	return s.priv.MarshalBinary()
}

func (s *Dilithium3Signer) Sign(scope []byte) ([]byte, error) {
	digest := sha3.Sum256(scope)
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(s.priv, digest[:], sig)
	return sig, nil
}
