package sign

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func mustEd25519(t *testing.T, seedByte byte) *Ed25519Signer {
	t.Helper()
	seed := bytes.Repeat([]byte{seedByte}, 32)
	s, err := NewEd25519SignerFromSeed(seed)
	if err != nil {
		t.Fatalf("NewEd25519SignerFromSeed: %v", err)
	}
	return s
}

func TestEd25519SignVerify(t *testing.T) {
	s := mustEd25519(t, 1)
	scope := []byte("scope bytes")

	sig, err := s.Sign(scope)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(s.Public(), scope, sig) {
		t.Fatalf("signature must verify")
	}
	if Verify(s.Public(), []byte("other scope"), sig) {
		t.Fatalf("signature must not verify for other bytes")
	}
	if Verify(mustEd25519(t, 2).Public(), scope, sig) {
		t.Fatalf("signature must not verify under another key")
	}
}

func TestEd25519FlippedBit(t *testing.T) {
	s := mustEd25519(t, 3)
	scope := []byte("bit flip fixture")
	sig, err := s.Sign(scope)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	bad := append([]byte{}, sig...)
	bad[0] ^= 0x01
	if Verify(s.Public(), scope, bad) {
		t.Fatalf("flipped signature bit must not verify")
	}

	badScope := append([]byte{}, scope...)
	badScope[0] ^= 0x01
	if Verify(s.Public(), badScope, sig) {
		t.Fatalf("flipped scope bit must not verify")
	}
}

func TestDilithium3SignVerify(t *testing.T) {
	s, err := GenerateDilithium3(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateDilithium3: %v", err)
	}
	scope := []byte("post-quantum scope")

	sig, err := s.Sign(scope)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(s.Public(), scope, sig) {
		t.Fatalf("signature must verify")
	}
	if Verify(s.Public(), []byte("other scope"), sig) {
		t.Fatalf("signature must not verify for other bytes")
	}
}

func TestDilithium3KeyRoundTrip(t *testing.T) {
	s, err := GenerateDilithium3(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateDilithium3: %v", err)
	}
	priv, err := s.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey: %v", err)
	}

	loaded, err := NewDilithium3Signer(s.Public(), priv)
	if err != nil {
		t.Fatalf("NewDilithium3Signer: %v", err)
	}
	scope := []byte("reloaded key scope")
	sig, err := loaded.Sign(scope)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(s.Public(), scope, sig) {
		t.Fatalf("signature from reloaded key must verify")
	}
}

func TestSchemeFor(t *testing.T) {
	ed := mustEd25519(t, 4)
	if scheme, err := SchemeFor(ed.Public()); err != nil || scheme != SchemeEd25519 {
		t.Fatalf("SchemeFor(ed25519): %q %v", scheme, err)
	}

	d3, err := GenerateDilithium3(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateDilithium3: %v", err)
	}
	if scheme, err := SchemeFor(d3.Public()); err != nil || scheme != SchemeDilithium3 {
		t.Fatalf("SchemeFor(dilithium3): %q %v", scheme, err)
	}

	if _, err := SchemeFor([]byte{1, 2, 3}); err == nil {
		t.Fatalf("SchemeFor must reject unknown key lengths")
	}
	if Verify([]byte{1, 2, 3}, []byte("x"), []byte("y")) {
		t.Fatalf("Verify must be false for unknown key lengths")
	}
}
