package testing

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/kvapp/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementations
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {

	b.Run("Set", func(b *testing.B) {
		benchmarkSet(b, open(b, factory, b.TempDir()))
	})

	b.Run("SetLargeValue", func(b *testing.B) {
		benchmarkSetLargeValue(b, open(b, factory, b.TempDir()))
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, open(b, factory, b.TempDir()))
	})

	b.Run("Delete", func(b *testing.B) {
		benchmarkDelete(b, open(b, factory, b.TempDir()))
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, open(b, factory, b.TempDir()))
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Set operation
func benchmarkSet(b *testing.B, database db.KVDB) {

	b.Cleanup(func() {
		database.Close()
	})

	var counter atomic.Uint64
	value := []byte("benchmark-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := []byte(fmt.Sprintf("bench-set-%d", counter.Add(1)))
			if err := database.Set(key, value); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// Benchmark for Set operation with 100KB values
func benchmarkSetLargeValue(b *testing.B, database db.KVDB) {

	b.Cleanup(func() {
		database.Close()
	})

	value := bytes.Repeat([]byte("x"), 100*1024)

	b.SetBytes(int64(len(value)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := database.Set([]byte(fmt.Sprintf("bench-large-%d", i%100)), value); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for Get operation on a populated key space
func benchmarkGet(b *testing.B, database db.KVDB) {

	b.Cleanup(func() {
		database.Close()
	})

	const numKeys = 1000
	for i := 0; i < numKeys; i++ {
		if err := database.Set([]byte(fmt.Sprintf("bench-get-%d", i)), []byte("value")); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			key := []byte(fmt.Sprintf("bench-get-%d", r.Intn(numKeys)))
			if _, _, err := database.Get(key); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// Benchmark for Delete operation (set + delete per iteration)
func benchmarkDelete(b *testing.B, database db.KVDB) {

	b.Cleanup(func() {
		database.Close()
	})

	value := []byte("value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("bench-del-%d", i))
		if err := database.Set(key, value); err != nil {
			b.Fatal(err)
		}
		if _, err := database.Delete(key); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for a read heavy mix (80% get, 15% set, 5% delete)
func benchmarkMixedUsage(b *testing.B, database db.KVDB) {

	b.Cleanup(func() {
		database.Close()
	})

	const numKeys = 100
	value := []byte("mixed-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			key := []byte(fmt.Sprintf("bench-mixed-%d", r.Intn(numKeys)))
			var err error
			switch op := r.Intn(100); {
			case op < 80:
				_, _, err = database.Get(key)
			case op < 95:
				err = database.Set(key, value)
			default:
				_, err = database.Delete(key)
			}
			if err != nil {
				b.Error(err)
				return
			}
		}
	})
}
