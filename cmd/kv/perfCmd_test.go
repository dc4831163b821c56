package kv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/kvapp/api/common"
)

func TestGetKeysWrapAround(t *testing.T) {
	perfKeySpread = 3
	getKey, iter := getKeys("put")

	if string(getKey(0)) != string(getKey(3)) {
		t.Errorf("Expected key 0 and 3 to be equal, got %s and %s", getKey(0), getKey(3))
	}
	if string(getKey(1)) != "__perf-put-1" {
		t.Errorf("Unexpected key %s", getKey(1))
	}

	count := 0
	iter(func([]byte) { count++ })
	if count != 3 {
		t.Errorf("Expected 3 keys, got %d", count)
	}
}

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"put", " get"}
	if !shouldSkip("put") || !shouldSkip("get") {
		t.Error("Expected listed benchmarks to be skipped")
	}
	if shouldSkip("mixed") {
		t.Error("Expected mixed not to be skipped")
	}
	if res := runBenchmark(perfBenchmark{name: "put"}); res.N != 0 {
		t.Errorf("Expected an empty result for a skipped benchmark, got N=%d", res.N)
	}
}

func TestWriteResultsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf.csv")
	results := map[string]testing.BenchmarkResult{
		"get": {N: 100, T: 100 * time.Millisecond},
		"put": {},
	}
	conf := &common.ClientConfig{Endpoint: "http://127.0.0.1:8080", TimeoutSecond: 5}

	if err := writeResultsToCSV(path, results, conf); err != nil {
		t.Fatalf("writeResultsToCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d rows", len(rows))
	}
	for _, row := range rows[1:] {
		switch row[0] {
		case "get":
			if row[1] != "1000000" || row[4] != "false" {
				t.Errorf("Unexpected get row %v", row)
			}
		case "put":
			if row[4] != "true" {
				t.Errorf("Expected put to be marked skipped, got %v", row)
			}
		default:
			t.Errorf("Unexpected row %v", row)
		}
	}
}
