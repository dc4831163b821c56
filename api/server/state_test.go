package server

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/store"
)

// exclusiveStore fails the test if two operations overlap
type exclusiveStore struct {
	t      *testing.T
	mu     sync.Mutex
	active int
	calls  int
}

func (s *exclusiveStore) enter() func() {
	s.mu.Lock()
	s.active++
	s.calls++
	if s.active > 1 {
		s.t.Errorf("%d store operations running at once", s.active)
	}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}
}

func (s *exclusiveStore) Get([]byte) ([]byte, bool, error) {
	defer s.enter()()
	return nil, false, nil
}
func (s *exclusiveStore) Put([]byte, []byte) error {
	defer s.enter()()
	return nil
}
func (s *exclusiveStore) Delete([]byte) (bool, error) {
	defer s.enter()()
	return false, nil
}
func (s *exclusiveStore) Health() (uint64, error)             { return 0, nil }
func (s *exclusiveStore) GetDBInfo() (db.DatabaseInfo, error) { return db.DatabaseInfo{}, nil }
func (s *exclusiveStore) Close() error                        { return nil }

func TestServerStateSerializesOperations(t *testing.T) {
	inner := &exclusiveStore{t: t}
	state := NewServerState("default", inner)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = state.Do(func(st store.IStore) error {
					return st.Put([]byte("k"), []byte("v"))
				})
				_ = state.Do(func(st store.IStore) error {
					_, _, err := st.Get([]byte("k"))
					return err
				})
			}
		}()
	}
	wg.Wait()

	if inner.calls != 16*100*2 {
		t.Errorf("Expected %d calls, got %d", 16*100*2, inner.calls)
	}
	if state.Name() != "default" {
		t.Errorf("Unexpected name %s", state.Name())
	}
}
