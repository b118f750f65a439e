package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/testkit"
	"kutyus.dev/kutyus/wire"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	testkit.RunFeedStoreConformance(t, func(t *testing.T) store.FeedStore {
		return newTestStore(t)
	})
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("New(\"\") should fail")
	}
}

// TestCorruptedObjectDetected rewrites a stored object out of band and checks
// that reads refuse to return bytes whose digest no longer matches the CID.
func TestCorruptedObjectDetected(t *testing.T) {
	s := newTestStore(t)
	signer := testkit.Signer(t, 1)
	frames := testkit.Chain(t, signer, 1)
	if err := s.Append(frames[0]); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	corruptOneObject(t, s.root)

	if _, err := s.Get(signer.Public(), 1); !errors.Is(err, store.ErrDigestMismatch) {
		t.Fatalf("Get after corruption: got err=%v want ErrDigestMismatch", err)
	}
	if _, err := s.Latest(signer.Public()); !errors.Is(err, store.ErrDigestMismatch) {
		t.Fatalf("Latest after corruption: got err=%v want ErrDigestMismatch", err)
	}
}

func TestObjectsAreImmutable(t *testing.T) {
	s := newTestStore(t)
	signer := testkit.Signer(t, 2)
	frames := testkit.Chain(t, signer, 1)
	if err := s.Append(frames[0]); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	corruptOneObject(t, s.root)

	// Re-storing the same frame bytes must now detect the clobbered object.
	frameBytes, err := wire.EncodeFrame(frames[0])
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := s.putObject(frameBytes); !errors.Is(err, store.ErrImmutable) {
		t.Fatalf("putObject over corrupted object: got err=%v want ErrImmutable", err)
	}
}

func TestReopenSeesExistingFeed(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	signer := testkit.Signer(t, 3)
	for _, f := range testkit.Chain(t, signer, 3) {
		if err := s.Append(f); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	reopened, err := New(root)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	latest, err := reopened.Latest(signer.Public())
	if err != nil {
		t.Fatalf("Latest after reopen: %v", err)
	}
	msg, err := latest.Message()
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg.Sequence != 3 {
		t.Fatalf("Latest after reopen: got sequence %d want 3", msg.Sequence)
	}
}

// TestIndexPathSharedByReadAndWrite pins the index file layout: the path the
// append side writes is the path the read side resolves, so a frame stored
// through Append is immediately readable through Get.
func TestIndexPathSharedByReadAndWrite(t *testing.T) {
	s := newTestStore(t)
	signer := testkit.Signer(t, 4)
	frames := testkit.Chain(t, signer, 1)
	if err := s.Append(frames[0]); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	path := s.indexPath(signer.Public(), 1)
	if filepath.Base(path) != "0000000000000001" {
		t.Fatalf("index file name: got %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("index file missing at %s: %v", path, err)
	}

	got, err := s.Get(signer.Public(), 1)
	if err != nil {
		t.Fatalf("Get after Append: %v", err)
	}
	if !bytes.Equal(got.MessageBytes, frames[0].MessageBytes) {
		t.Fatal("Get returned wrong frame")
	}
}

// corruptOneObject finds a stored object file and flips its contents.
func corruptOneObject(t *testing.T, root string) {
	t.Helper()
	var target string
	err := filepath.Walk(filepath.Join(root, "objects"), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && target == "" {
			target = path
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk objects: %v", err)
	}
	if target == "" {
		t.Fatal("no object file found")
	}
	if err := os.Chmod(target, 0o644); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	data[len(data)-1] ^= 0x01
	if err := os.WriteFile(target, data, 0o644); err != nil {
		t.Fatalf("rewrite object: %v", err)
	}
}
