// Package localfs provides a local filesystem FeedStore.
//
// Frame bytes are stored immutably, content-addressed by CIDv1 (raw +
// sha2-512) under objects/; the per-author chain is a directory of index
// files under feeds/<author-hex>/ mapping zero-padded sequence numbers to
// object CIDs. This keeps the canonical frame bytes byte-reproducible for
// later re-validation and audits.
//
// This implementation is offline and deterministic: it never uses the
// network and never depends on wall-clock time.
package localfs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/feed"
	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/wire"
)

type Store struct {
	root    string
	appends store.AuthorMutex
}

var _ store.FeedStore = (*Store)(nil)

// New constructs a filesystem store rooted at root. The directory will be
// created if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	for _, dir := range []string{root, filepath.Join(root, "objects"), filepath.Join(root, "feeds")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{root: root}, nil
}

func (s *Store) Append(f *wire.Frame) error {
	msg, err := f.Message()
	if err != nil {
		return err
	}
	unlock := s.appends.Lock(msg.Author)
	defer unlock()

	prev, err := s.latestLocked(msg.Author)
	if err != nil && !store.IsNotFound(err) {
		return err
	}
	res, err := feed.Validate(f, prev)
	if err != nil {
		return err
	}
	if !res.Accepted {
		return &store.RejectedError{Reason: res.Reason}
	}

	frameBytes, err := wire.EncodeFrame(f)
	if err != nil {
		return err
	}
	cid, err := s.putObject(frameBytes)
	if err != nil {
		return err
	}
	return s.writeIndex(msg.Author, msg.Sequence, cid)
}

func (s *Store) Latest(author []byte) (*wire.Frame, error) {
	unlock := s.appends.Lock(author)
	defer unlock()
	return s.latestLocked(author)
}

func (s *Store) latestLocked(author []byte) (*wire.Frame, error) {
	seqs, err := s.sequences(author)
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, store.ErrNotFound
	}
	return s.readFrame(author, seqs[len(seqs)-1])
}

func (s *Store) Get(author []byte, sequence uint64) (*wire.Frame, error) {
	if sequence < 1 {
		return nil, store.ErrNotFound
	}
	return s.readFrame(author, sequence)
}

func (s *Store) Authors() ([][]byte, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "feeds"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var authors [][]byte
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		author, err := hex.DecodeString(e.Name())
		if err != nil {
			continue
		}
		authors = append(authors, author)
	}
	return authors, nil
}

func (s *Store) Iterate(author []byte, fromSequence uint64) (store.Iterator, error) {
	if fromSequence < 1 {
		fromSequence = 1
	}
	seqs, err := s.sequences(author)
	if err != nil {
		return nil, err
	}
	var remaining []uint64
	for _, seq := range seqs {
		if seq >= fromSequence {
			remaining = append(remaining, seq)
		}
	}
	return &iterator{store: s, author: author, seqs: remaining}, nil
}

type iterator struct {
	store  *Store
	author []byte
	seqs   []uint64
	cur    *wire.Frame
	err    error
}

func (it *iterator) Next() bool {
	if it.err != nil || len(it.seqs) == 0 {
		it.cur = nil
		return false
	}
	f, err := it.store.readFrame(it.author, it.seqs[0])
	if err != nil {
		it.err = err
		it.cur = nil
		return false
	}
	it.seqs = it.seqs[1:]
	it.cur = f
	return true
}

func (it *iterator) Frame() *wire.Frame { return it.cur }
func (it *iterator) Err() error         { return it.err }

// putObject stores frame bytes immutably under their CID.
func (s *Store) putObject(frameBytes []byte) (string, error) {
	cid := digestutil.CIDv1RawSHA512(frameBytes)
	if cid == "" {
		return "", store.ErrDigestMismatch
	}

	path := s.objectPath(cid)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := os.ReadFile(path)
			// If the object exists but is unreadable or holds different
			// bytes, treat it as an immutability violation.
			if rerr != nil || string(existing) != string(frameBytes) {
				return "", store.ErrImmutable
			}
			return cid, nil
		}
		return "", err
	}

	if _, err := fh.Write(frameBytes); err != nil {
		_ = fh.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return cid, nil
}

func (s *Store) readFrame(author []byte, sequence uint64) (*wire.Frame, error) {
	cidBytes, err := os.ReadFile(s.indexPath(author, sequence))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	cid := strings.TrimSpace(string(cidBytes))

	frameBytes, err := os.ReadFile(s.objectPath(cid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if digestutil.CIDv1RawSHA512(frameBytes) != cid {
		return nil, store.ErrDigestMismatch
	}
	return wire.DecodeFrame(frameBytes)
}

func (s *Store) writeIndex(author []byte, sequence uint64, cid string) error {
	dir := s.feedDir(author)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := s.indexPath(author, sequence)
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			return store.ErrImmutable
		}
		return err
	}
	if _, err := fh.Write([]byte(cid + "\n")); err != nil {
		_ = fh.Close()
		_ = os.Remove(path)
		return err
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		_ = os.Remove(path)
		return err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// sequences lists the author's stored sequence numbers, ascending.
func (s *Store) sequences(author []byte) ([]uint64, error) {
	entries, err := os.ReadDir(s.feedDir(author))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	seqs := make([]uint64, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		seq, err := strconv.ParseUint(e.Name(), 16, 64)
		if err != nil {
			continue
		}
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	return seqs, nil
}

func (s *Store) feedDir(author []byte) string {
	return filepath.Join(s.root, "feeds", hex.EncodeToString(author))
}

func (s *Store) indexPath(author []byte, sequence uint64) string {
	return filepath.Join(s.feedDir(author), seqName(sequence))
}

func (s *Store) objectPath(cid string) string {
	if len(cid) < 2 {
		return filepath.Join(s.root, "objects", cid)
	}
	return filepath.Join(s.root, "objects", cid[:2], cid)
}

func seqName(sequence uint64) string {
	return fmt.Sprintf("%016x", sequence)
}
