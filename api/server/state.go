package server

import (
	"sync"

	"github.com/ValentinKolb/kvapp/lib/store"
)

// ServerState is the single shared resource of the process: the nickname of the
// served store and the store itself. Every store operation runs under mu.
type ServerState struct {
	name  string
	mu    sync.Mutex
	store store.IStore
}

// NewServerState takes ownership of st.
func NewServerState(name string, st store.IStore) *ServerState {
	return &ServerState{
		name:  name,
		store: st,
	}
}

// Name returns the external nickname of the store.
func (s *ServerState) Name() string {
	return s.name
}

// Do runs fn with exclusive access to the store. The lock is held for the
// duration of fn only, so fn should perform a single store operation.
func (s *ServerState) Do(fn func(st store.IStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

// Close releases the store. Requests arriving afterwards fail with internal errors.
func (s *ServerState) Close() error {
	return s.Do(func(st store.IStore) error {
		return st.Close()
	})
}
