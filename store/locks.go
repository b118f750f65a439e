package store

import "sync"

// AuthorMutex serializes operations per author while letting distinct
// authors proceed in parallel. Backends use it to keep exactly one
// validate-and-append in flight per feed.
type AuthorMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock acquires the author's lock and returns the matching unlock function.
func (a *AuthorMutex) Lock(author []byte) func() {
	a.mu.Lock()
	if a.locks == nil {
		a.locks = make(map[string]*sync.Mutex)
	}
	l, ok := a.locks[string(author)]
	if !ok {
		l = &sync.Mutex{}
		a.locks[string(author)] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}
