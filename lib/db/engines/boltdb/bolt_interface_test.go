package boltdb

import (
	"testing"
	"time"

	"github.com/ValentinKolb/kvapp/lib/db"
	dbtesting "github.com/ValentinKolb/kvapp/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "BoltDB", func(path string) (db.KVDB, error) {
		return NewBoltDB(path, nil)
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "BoltDB", func(path string) (db.KVDB, error) {
		return NewBoltDB(path, &DBOptions{Timeout: time.Second, NoSync: true})
	})
}

func TestSecondOpenTimesOut(t *testing.T) {
	path := t.TempDir()
	first, err := NewBoltDB(path, nil)
	if err != nil {
		t.Fatalf("NewBoltDB failed: %v", err)
	}
	defer first.Close()

	// bolt holds an exclusive file lock, a second handle must not open
	if second, err := NewBoltDB(path, &DBOptions{Timeout: 50 * time.Millisecond}); err == nil {
		second.Close()
		t.Fatalf("Expected second open of %s to fail while the first handle is open", path)
	}
}
