package pebbledb

import (
	"testing"

	"github.com/ValentinKolb/kvapp/lib/db"
	dbtesting "github.com/ValentinKolb/kvapp/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "PebbleDB", func(path string) (db.KVDB, error) {
		return NewPebbleDB(path, nil)
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "PebbleDB", func(path string) (db.KVDB, error) {
		opts := DefaultOptions()
		opts.Sync = false
		return NewPebbleDB(path, opts)
	})
}

func TestInfo(t *testing.T) {
	database, err := NewPebbleDB(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewPebbleDB failed: %v", err)
	}
	defer database.Close()

	if got := database.Info().DbType; got != db.ImplPebble {
		t.Errorf("Expected db type %s, got %s", db.ImplPebble, got)
	}
}
