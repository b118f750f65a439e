// Package memory provides the in-memory reference FeedStore.
//
// It is the backend the conformance suite is written against and is intended
// for tests and short-lived tooling; nothing survives the process.
package memory

import (
	"sync"

	"kutyus.dev/kutyus/feed"
	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/wire"
)

type Store struct {
	appends store.AuthorMutex

	mu    sync.RWMutex
	feeds map[string][]*wire.Frame
}

var _ store.FeedStore = (*Store)(nil)

func New() *Store {
	return &Store{feeds: make(map[string][]*wire.Frame)}
}

func (s *Store) Append(f *wire.Frame) error {
	msg, err := f.Message()
	if err != nil {
		return err
	}
	unlock := s.appends.Lock(msg.Author)
	defer unlock()

	s.mu.RLock()
	chain := s.feeds[string(msg.Author)]
	s.mu.RUnlock()

	var prev *wire.Frame
	if len(chain) > 0 {
		prev = chain[len(chain)-1]
	}
	res, err := feed.Validate(f, prev)
	if err != nil {
		return err
	}
	if !res.Accepted {
		return &store.RejectedError{Reason: res.Reason}
	}

	s.mu.Lock()
	s.feeds[string(msg.Author)] = append(chain, f)
	s.mu.Unlock()
	return nil
}

func (s *Store) Latest(author []byte) (*wire.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.feeds[string(author)]
	if len(chain) == 0 {
		return nil, store.ErrNotFound
	}
	return chain[len(chain)-1], nil
}

func (s *Store) Get(author []byte, sequence uint64) (*wire.Frame, error) {
	if sequence < 1 {
		return nil, store.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.feeds[string(author)]
	if sequence > uint64(len(chain)) {
		return nil, store.ErrNotFound
	}
	return chain[sequence-1], nil
}

func (s *Store) Authors() ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	authors := make([][]byte, 0, len(s.feeds))
	for author := range s.feeds {
		authors = append(authors, []byte(author))
	}
	return authors, nil
}

func (s *Store) Iterate(author []byte, fromSequence uint64) (store.Iterator, error) {
	if fromSequence < 1 {
		fromSequence = 1
	}
	s.mu.RLock()
	chain := s.feeds[string(author)]
	var frames []*wire.Frame
	if fromSequence <= uint64(len(chain)) {
		frames = append(frames, chain[fromSequence-1:]...)
	}
	s.mu.RUnlock()
	return &sliceIterator{frames: frames}, nil
}

type sliceIterator struct {
	frames []*wire.Frame
	cur    *wire.Frame
}

func (it *sliceIterator) Next() bool {
	if len(it.frames) == 0 {
		it.cur = nil
		return false
	}
	it.cur = it.frames[0]
	it.frames = it.frames[1:]
	return true
}

func (it *sliceIterator) Frame() *wire.Frame { return it.cur }
func (it *sliceIterator) Err() error         { return nil }
