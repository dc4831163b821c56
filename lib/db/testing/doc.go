// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - testing: A conformance suite for the KVDB contract (absence is not an error,
//     copies are returned, writes survive a reopen, a vanished data directory fails
//     the size probe, closed databases return db.ErrClosed)
//   - benchmark: Performance tests for measuring throughput of common database operations
//
// Every test opens its database in a fresh temporary directory.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(path string) (db.KVDB, error) {
//		return NewMyDatabase(path)
//	}
//
//	// Running the standard test suite
//	dbtesting.RunKVDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunKVDBBenchmarks(b, "MyDatabase", factory)
package testing
