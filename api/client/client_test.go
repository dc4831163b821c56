package client

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ValentinKolb/kvapp/api/common"
	"github.com/ValentinKolb/kvapp/api/server"
	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/db/engines/boltdb"
	"github.com/ValentinKolb/kvapp/lib/store"
	"github.com/ValentinKolb/kvapp/lib/store/lstore"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()
	st, err := lstore.NewLocalStore(func() (db.KVDB, error) {
		return boltdb.NewBoltDB(dir, nil)
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	state := server.NewServerState("client-test", st)
	ts := httptest.NewServer(server.New(state, server.Options{Version: common.Version}).Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = state.Close()
	})
	return New(common.ClientConfig{Endpoint: ts.URL, TimeoutSecond: 5})
}

func TestClientScenario(t *testing.T) {
	c := newTestClient(t)
	key := []byte("1")

	if _, found, err := c.Get(key); err != nil || found {
		t.Fatalf("Expected miss, got found=%v err=%v", found, err)
	}
	if existed, err := c.Delete(key); err != nil || existed {
		t.Fatalf("Expected delete miss, got existed=%v err=%v", existed, err)
	}
	if err := c.Put(key, []byte("helloworld")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value, found, err := c.Get(key)
	if err != nil || !found || string(value) != "helloworld" {
		t.Fatalf("Expected helloworld, got %q found=%v err=%v", value, found, err)
	}
	if existed, err := c.Delete(key); err != nil || !existed {
		t.Fatalf("Expected delete hit, got existed=%v err=%v", existed, err)
	}
	if _, found, _ := c.Get(key); found {
		t.Fatal("Expected key to be gone")
	}
	if err := c.Health(); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
}

func TestClientInfo(t *testing.T) {
	c := newTestClient(t)

	info, err := c.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Name != "kvapp" || info.Version != common.Version || info.DatabaseInfo.Name != "client-test" {
		t.Errorf("Unexpected info %+v", info)
	}
}

func TestClientEscapesKeys(t *testing.T) {
	c := newTestClient(t)
	key := []byte("hello world?x=1")
	value := []byte{0x00, 0x01, 0xfe, 0xff}

	if err := c.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, found, err := c.Get(key)
	if err != nil || !found || !bytes.Equal(got, value) {
		t.Fatalf("Expected %v, got %v found=%v err=%v", value, got, found, err)
	}
}

// brokenStore fails every operation
type brokenStore struct{}

var errBroken = store.NewError(store.RetCInternalError, "broken")

func (brokenStore) Get([]byte) ([]byte, bool, error)    { return nil, false, errBroken }
func (brokenStore) Put([]byte, []byte) error            { return errBroken }
func (brokenStore) Delete([]byte) (bool, error)         { return false, errBroken }
func (brokenStore) Health() (uint64, error)             { return 0, errBroken }
func (brokenStore) GetDBInfo() (db.DatabaseInfo, error) { return db.DatabaseInfo{}, nil }
func (brokenStore) Close() error                        { return nil }

func TestClientServerErrors(t *testing.T) {
	state := server.NewServerState("broken", brokenStore{})
	ts := httptest.NewServer(server.New(state, server.Options{}).Handler())
	defer ts.Close()
	c := New(common.ClientConfig{Endpoint: ts.URL, TimeoutSecond: 5})

	check := func(op string, err error) {
		t.Helper()
		var apiErr *common.ApiError
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: expected *common.ApiError, got %v", op, err)
		}
		if apiErr.Code != -http.StatusInternalServerError || apiErr.Message != "internal server error" {
			t.Errorf("%s: unexpected error %+v", op, apiErr)
		}
	}

	_, _, err := c.Get([]byte("k"))
	check("get", err)
	check("put", c.Put([]byte("k"), []byte("v")))
	_, err = c.Delete([]byte("k"))
	check("delete", err)
	check("health", c.Health())
}

func TestClientUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(common.ClientConfig{Endpoint: url, TimeoutSecond: 1})
	if err := c.Health(); err == nil {
		t.Fatal("Expected an error for a closed server")
	}
}
