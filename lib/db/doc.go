// Package db provides the interface every embedded storage engine of kvapp satisfies.
//
// The package focuses on:
//   - A minimal, fallible contract for byte-key/byte-value storage (KVDB)
//   - Engine identifiers (Implementation) that the configuration refers to
//
// Key Components:
//
//   - KVDB Interface: Get, Set, Delete, SizeOnDisk, Info and Close. Absence of a key is
//     never an error: Get reports it through its boolean result and Delete through
//     its existed result. Errors are reserved for engine faults (I/O, corruption,
//     closed database).
//
//   - Implementation: string constants naming the available engines ("pebble", "bolt").
//
// Engines:
//
//	The engines/pebbledb package wraps github.com/cockroachdb/pebble (an LSM tree) and
//	the engines/boltdb package wraps go.etcd.io/bbolt (a single-file B+tree). Both keep
//	their data in a directory that outlives the process.
//
// The testing package (github.com/ValentinKolb/kvapp/lib/db/testing) provides the shared
// conformance suite and benchmarks every engine runs against.
package db
