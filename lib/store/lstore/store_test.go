package lstore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/db/engines/pebbledb"
	"github.com/ValentinKolb/kvapp/lib/store"
)

// brokenDB fails every operation with errBroken
type brokenDB struct{}

var errBroken = errors.New("disk on fire")

func (brokenDB) Set(_, _ []byte) error              { return errBroken }
func (brokenDB) Delete(_ []byte) (bool, error)      { return false, errBroken }
func (brokenDB) Get(_ []byte) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenDB) SizeOnDisk() (uint64, error)        { return 0, errBroken }
func (brokenDB) Info() db.DatabaseInfo              { return db.DatabaseInfo{} }
func (brokenDB) Close() error                       { return nil }

func newPebbleStore(t *testing.T) store.IStore {
	t.Helper()
	st, err := NewLocalStore(func() (db.KVDB, error) {
		return pebbledb.NewPebbleDB(t.TempDir(), nil)
	})
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return st
}

func TestGetPutDelete(t *testing.T) {
	st := newPebbleStore(t)
	defer st.Close()

	key := []byte("1")
	value := []byte("helloworld")

	if _, loaded, err := st.Get(key); err != nil || loaded {
		t.Fatalf("Expected miss on empty store, got loaded=%v err=%v", loaded, err)
	}
	if existed, err := st.Delete(key); err != nil || existed {
		t.Fatalf("Expected Delete miss on empty store, got existed=%v err=%v", existed, err)
	}

	if err := st.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, loaded, err := st.Get(key)
	if err != nil || !loaded || !bytes.Equal(got, value) {
		t.Fatalf("Expected %s, got %s (loaded=%v err=%v)", value, got, loaded, err)
	}

	if existed, err := st.Delete(key); err != nil || !existed {
		t.Fatalf("Expected Delete hit, got existed=%v err=%v", existed, err)
	}

	if _, err := st.Health(); err != nil {
		t.Errorf("Health failed on an open store: %v", err)
	}
	if info, _ := st.GetDBInfo(); info.DbType != db.ImplPebble {
		t.Errorf("Expected db type %s, got %s", db.ImplPebble, info.DbType)
	}
}

func TestEngineErrorsAreWrapped(t *testing.T) {
	st, err := NewLocalStore(func() (db.KVDB, error) { return brokenDB{}, nil })
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	check := func(op string, err error) {
		t.Helper()
		var storeErr *store.Error
		if !errors.As(err, &storeErr) {
			t.Fatalf("%s: expected *store.Error, got %T (%v)", op, err, err)
		}
		if storeErr.Code != store.RetCInternalError {
			t.Errorf("%s: expected code %s, got %s", op, store.RetCInternalError, storeErr.Code)
		}
		if !errors.Is(err, errBroken) {
			t.Errorf("%s: expected engine cause to be preserved", op)
		}
	}

	_, _, err = st.Get([]byte("k"))
	check("get", err)
	check("put", st.Put([]byte("k"), []byte("v")))
	_, err = st.Delete([]byte("k"))
	check("delete", err)
	_, err = st.Health()
	check("health", err)
}

func TestClosedStore(t *testing.T) {
	st := newPebbleStore(t)
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, _, err := st.Get([]byte("k"))
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCClosed {
		t.Fatalf("Expected RetCClosed after Close, got %v", err)
	}
	if !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected db.ErrClosed to be reachable through the store error")
	}
}

func TestFactoryError(t *testing.T) {
	want := errors.New("cannot open")
	if _, err := NewLocalStore(func() (db.KVDB, error) { return nil, want }); !errors.Is(err, want) {
		t.Fatalf("Expected factory error to be returned, got %v", err)
	}
}
