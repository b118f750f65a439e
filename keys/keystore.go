// Package keys provides local-first storage for feed author keys.
//
// Keys live as raw byte files under a directory (default ~/.kutyus/keys):
// <name>.key holds the private key (0600), <name>.key.pub the public key.
// Dilithium3 keys use the same layout with a .d3 infix so the scheme is
// recoverable from the filename.
//
// This is a convenience surface for the CLI; the core only consumes the
// sign.Signer capability.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kutyus.dev/kutyus/sign"
)

// ErrKeyExists is returned by Generate when the named key already exists.
var ErrKeyExists = errors.New("keys: key already exists")

// ErrKeyNotFound is returned by Load when the named key does not exist.
var ErrKeyNotFound = errors.New("keys: key not found")

type KeyStore struct {
	Directory string
}

// DefaultDirectory returns ~/.kutyus/keys.
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".kutyus", "keys"), nil
}

// Open returns a KeyStore rooted at directory, creating it if needed.
// An empty directory selects the default location.
func Open(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, err
	}
	return &KeyStore{Directory: directory}, nil
}

// Generate creates and persists a new ed25519 identity under name.
func (ks *KeyStore) Generate(name string) (sign.Signer, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	signer, err := sign.GenerateEd25519(rand.Reader)
	if err != nil {
		return nil, err
	}
	if err := ks.write(name+".key", signer.PrivateKey(), signer.Public()); err != nil {
		return nil, err
	}
	return signer, nil
}

// GenerateDilithium3 creates and persists a new dilithium3 identity.
func (ks *KeyStore) GenerateDilithium3(name string) (sign.Signer, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	signer, err := sign.GenerateDilithium3(rand.Reader)
	if err != nil {
		return nil, err
	}
	priv, err := signer.PrivateKey()
	if err != nil {
		return nil, err
	}
	if err := ks.write(name+".d3.key", priv, signer.Public()); err != nil {
		return nil, err
	}
	return signer, nil
}

// Load reads the named identity back as a signing capability, trying the
// ed25519 layout first and the dilithium3 layout second.
func (ks *KeyStore) Load(name string) (sign.Signer, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if priv, err := os.ReadFile(ks.path(name + ".key")); err == nil {
		return sign.NewEd25519Signer(ed25519.PrivateKey(priv))
	}
	priv, err := os.ReadFile(ks.path(name + ".d3.key"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
		}
		return nil, err
	}
	pub, err := os.ReadFile(ks.path(name + ".d3.key.pub"))
	if err != nil {
		return nil, err
	}
	return sign.NewDilithium3Signer(pub, priv)
}

// List returns the names of stored identities, without extensions.
func (ks *KeyStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		switch {
		case strings.HasSuffix(n, ".d3.key"):
			names = append(names, strings.TrimSuffix(n, ".d3.key"))
		case strings.HasSuffix(n, ".key"):
			names = append(names, strings.TrimSuffix(n, ".key"))
		}
	}
	return names, nil
}

func (ks *KeyStore) write(privName string, priv, pub []byte) error {
	privPath := ks.path(privName)
	if _, err := os.Stat(privPath); err == nil {
		return fmt.Errorf("%w: %q", ErrKeyExists, privName)
	}
	if err := os.WriteFile(privPath, priv, 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(privPath+".pub", pub, 0o644); err != nil {
		_ = os.Remove(privPath)
		return err
	}
	return nil
}

func (ks *KeyStore) path(name string) string {
	return filepath.Join(ks.Directory, name)
}

func validName(name string) error {
	if name == "" {
		return errors.New("keys: key name is required")
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return fmt.Errorf("keys: invalid key name %q", name)
	}
	return nil
}
