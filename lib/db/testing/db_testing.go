package testing

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/ValentinKolb/kvapp/lib/db"
)

// DBFactory opens a KVDB implementation rooted at the directory path
type DBFactory func(path string) (db.KVDB, error)

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, open(t, factory, t.TempDir()))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, open(t, factory, t.TempDir()))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, open(t, factory, t.TempDir()))
		})

		t.Run("Persistence", func(t *testing.T) {
			testPersistence(t, factory)
		})

		t.Run("SizeOnDisk", func(t *testing.T) {
			testSizeOnDisk(t, factory)
		})

		t.Run("Closed", func(t *testing.T) {
			testClosed(t, open(t, factory, t.TempDir()))
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, open(t, factory, t.TempDir()))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, open(t, factory, t.TempDir()))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// open creates a database with the factory and fails the test on error
func open(t testing.TB, factory DBFactory, path string) db.KVDB {
	t.Helper()
	database, err := factory(path)
	if err != nil {
		t.Fatalf("Failed to open database at %s: %v", path, err)
	}
	return database
}

func mustSet(t testing.TB, database db.KVDB, key, value []byte) {
	t.Helper()
	if err := database.Set(key, value); err != nil {
		t.Fatalf("Set(%q) failed: %v", key, err)
	}
}

func mustGet(t testing.TB, database db.KVDB, key []byte) ([]byte, bool) {
	t.Helper()
	value, loaded, err := database.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	return value, loaded
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	testKey := []byte("test-key")
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	mustSet(t, database, testKey, testValue1)

	result, exists := mustGet(t, database, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	mustSet(t, database, testKey, testValue2)

	result, exists = mustGet(t, database, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, exists = mustGet(t, database, []byte("nonexistent-key"))
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	retrievedValue, _ := mustGet(t, database, testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := mustGet(t, database, testKey)
	if !bytes.Equal(originalValue, testValue2) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	testKey := []byte("delete-test-key")
	testValue := []byte("delete-test-value")

	existed, err := database.Delete(testKey)
	if err != nil {
		t.Fatalf("Delete of a missing key failed: %v", err)
	}
	if existed {
		t.Errorf("Expected Delete of a missing key to report existed=false")
	}

	mustSet(t, database, testKey, testValue)

	existed, err = database.Delete(testKey)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !existed {
		t.Errorf("Expected Delete of %s to report existed=true", testKey)
	}

	if _, exists := mustGet(t, database, testKey); exists {
		t.Errorf("Expected key %s to not exist after Delete", testKey)
	}

	existed, err = database.Delete(testKey)
	if err != nil {
		t.Fatalf("Second Delete failed: %v", err)
	}
	if existed {
		t.Errorf("Expected second Delete of %s to report existed=false", testKey)
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	t.Run("EmptyValue", func(t *testing.T) {
		key := []byte("empty-value")
		mustSet(t, database, key, []byte{})

		result, exists := mustGet(t, database, key)
		if !exists {
			t.Errorf("Expected key with empty value to exist")
		}
		if len(result) != 0 {
			t.Errorf("Expected empty value, got %d bytes", len(result))
		}
	})

	t.Run("BinaryValue", func(t *testing.T) {
		key := []byte("binary-value")
		value := make([]byte, 256)
		for i := range value {
			value[i] = byte(i)
		}
		mustSet(t, database, key, value)

		result, _ := mustGet(t, database, key)
		if !bytes.Equal(result, value) {
			t.Errorf("Binary value was not returned unchanged")
		}
	})

	t.Run("BinaryKey", func(t *testing.T) {
		key := []byte{0x00, 0xff, 0x10, 0x00}
		value := []byte("binary-key")
		mustSet(t, database, key, value)

		result, exists := mustGet(t, database, key)
		if !exists || !bytes.Equal(result, value) {
			t.Errorf("Expected binary key to round trip, got exists=%v value=%q", exists, result)
		}

		// a key that is a prefix of another key must not match it
		if _, exists := mustGet(t, database, key[:2]); exists {
			t.Errorf("Prefix of a stored key must not be found")
		}
	})

	t.Run("LargeValue", func(t *testing.T) {
		key := []byte("large-value")
		value := bytes.Repeat([]byte("0123456789abcdef"), 64*1024) // 1 MiB
		mustSet(t, database, key, value)

		result, _ := mustGet(t, database, key)
		if !bytes.Equal(result, value) {
			t.Errorf("Large value was not returned unchanged (got %d bytes)", len(result))
		}
	})

	t.Run("UnicodeKey", func(t *testing.T) {
		key := []byte("schlüssel-🔑")
		value := []byte("wert")
		mustSet(t, database, key, value)

		result, exists := mustGet(t, database, key)
		if !exists || !bytes.Equal(result, value) {
			t.Errorf("Expected unicode key to round trip")
		}
	})
}

func testPersistence(t *testing.T, factory DBFactory) {
	path := t.TempDir()

	database := open(t, factory, path)
	for i := 0; i < 100; i++ {
		mustSet(t, database, []byte(fmt.Sprintf("persist-key-%d", i)), []byte(fmt.Sprintf("persist-value-%d", i)))
	}
	if _, err := database.Delete([]byte("persist-key-0")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := open(t, factory, path)
	defer reopened.Close()

	if _, exists := mustGet(t, reopened, []byte("persist-key-0")); exists {
		t.Errorf("Deleted key must stay deleted after reopen")
	}
	for i := 1; i < 100; i++ {
		key := []byte(fmt.Sprintf("persist-key-%d", i))
		want := []byte(fmt.Sprintf("persist-value-%d", i))
		result, exists := mustGet(t, reopened, key)
		if !exists {
			t.Errorf("Expected key %s to survive reopen", key)
			continue
		}
		if !bytes.Equal(result, want) {
			t.Errorf("Expected value %s after reopen, got %s", want, result)
		}
	}
}

func testSizeOnDisk(t *testing.T, factory DBFactory) {
	path := t.TempDir()
	database := open(t, factory, path)
	defer database.Close()

	mustSet(t, database, []byte("size-key"), []byte("size-value"))

	if _, err := database.SizeOnDisk(); err != nil {
		t.Fatalf("SizeOnDisk failed on a healthy database: %v", err)
	}

	info := database.Info()
	if info.Path != path {
		t.Errorf("Expected info path %s, got %s", path, info.Path)
	}

	// the store directory disappearing must surface as an error
	if err := os.RemoveAll(path); err != nil {
		t.Fatalf("Failed to remove data directory: %v", err)
	}
	if _, err := database.SizeOnDisk(); err == nil {
		t.Errorf("Expected SizeOnDisk to fail after the data directory was removed")
	}
}

func testClosed(t *testing.T, database db.KVDB) {
	if err := database.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}

	if err := database.Set([]byte("k"), []byte("v")); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from Set, got %v", err)
	}
	if _, _, err := database.Get([]byte("k")); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from Get, got %v", err)
	}
	if _, err := database.Delete([]byte("k")); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from Delete, got %v", err)
	}
	if _, err := database.SizeOnDisk(); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from SizeOnDisk, got %v", err)
	}
}

func testConcurrent(t *testing.T, database db.KVDB) {
	defer database.Close()

	const (
		workers = 8
		perWork = 50
	)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWork; i++ {
				key := []byte(fmt.Sprintf("worker-%d-key-%d", w, i))
				value := []byte(fmt.Sprintf("worker-%d-value-%d", w, i))
				if err := database.Set(key, value); err != nil {
					errs <- err
					return
				}
				result, loaded, err := database.Get(key)
				if err != nil {
					errs <- err
					return
				}
				if !loaded || !bytes.Equal(result, value) {
					errs <- fmt.Errorf("worker %d: read %q after write, expected %q", w, result, value)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func testRealisticUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	// the same sequence the HTTP integration scenario runs
	key := []byte("1")
	value := []byte("helloworld")

	if _, exists := mustGet(t, database, key); exists {
		t.Fatalf("Expected fresh database to not contain %s", key)
	}
	if existed, _ := database.Delete(key); existed {
		t.Fatalf("Expected Delete on a fresh database to report existed=false")
	}

	mustSet(t, database, key, value)

	result, exists := mustGet(t, database, key)
	if !exists || !bytes.Equal(result, value) {
		t.Fatalf("Expected %s, got exists=%v value=%s", value, exists, result)
	}

	if existed, _ := database.Delete(key); !existed {
		t.Fatalf("Expected Delete of a stored key to report existed=true")
	}
	if _, exists := mustGet(t, database, key); exists {
		t.Fatalf("Expected key to be gone after Delete")
	}
	if existed, _ := database.Delete(key); existed {
		t.Fatalf("Expected repeated Delete to report existed=false")
	}
}
