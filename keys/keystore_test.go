package keys

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"kutyus.dev/kutyus/sign"
)

func openTestStore(t *testing.T) *KeyStore {
	t.Helper()
	ks, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return ks
}

func TestGenerateLoadRoundTrip(t *testing.T) {
	ks := openTestStore(t)

	generated, err := ks.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	loaded, err := ks.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Scheme() != sign.SchemeEd25519 {
		t.Fatalf("loaded scheme: got %q want %q", loaded.Scheme(), sign.SchemeEd25519)
	}
	if !bytes.Equal(loaded.Public(), generated.Public()) {
		t.Fatal("loaded public key differs from generated")
	}

	scope := []byte("probe")
	sig, err := loaded.Sign(scope)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !sign.Verify(generated.Public(), scope, sig) {
		t.Fatal("signature from loaded key does not verify")
	}
}

func TestGenerateDilithium3RoundTrip(t *testing.T) {
	ks := openTestStore(t)

	generated, err := ks.GenerateDilithium3("bob")
	if err != nil {
		t.Fatalf("GenerateDilithium3: %v", err)
	}
	loaded, err := ks.Load("bob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Scheme() != sign.SchemeDilithium3 {
		t.Fatalf("loaded scheme: got %q want %q", loaded.Scheme(), sign.SchemeDilithium3)
	}
	if !bytes.Equal(loaded.Public(), generated.Public()) {
		t.Fatal("loaded public key differs from generated")
	}
}

func TestGenerateRefusesOverwrite(t *testing.T) {
	ks := openTestStore(t)
	if _, err := ks.Generate("alice"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := ks.Generate("alice"); !errors.Is(err, ErrKeyExists) {
		t.Fatalf("second Generate: got err=%v want ErrKeyExists", err)
	}
}

func TestLoadMissingKey(t *testing.T) {
	ks := openTestStore(t)
	if _, err := ks.Load("nobody"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Load missing: got err=%v want ErrKeyNotFound", err)
	}
}

func TestInvalidNamesRejected(t *testing.T) {
	ks := openTestStore(t)
	for _, name := range []string{"", "a/b", `a\b`, "../escape"} {
		if _, err := ks.Generate(name); err == nil {
			t.Fatalf("Generate(%q) should fail", name)
		}
		if _, err := ks.Load(name); err == nil {
			t.Fatalf("Load(%q) should fail", name)
		}
	}
}

func TestList(t *testing.T) {
	ks := openTestStore(t)
	if names, err := ks.List(); err != nil || len(names) != 0 {
		t.Fatalf("List on empty store: %v, %v", names, err)
	}

	if _, err := ks.Generate("alice"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := ks.GenerateDilithium3("bob"); err != nil {
		t.Fatalf("GenerateDilithium3: %v", err)
	}

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Fatalf("List: got %v want [alice bob]", names)
	}
}

func TestPrivateKeyPermissions(t *testing.T) {
	ks := openTestStore(t)
	if _, err := ks.Generate("alice"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	info, err := os.Stat(filepath.Join(ks.Directory, "alice.key"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("private key permissions: got %o want 600", perm)
	}
}
