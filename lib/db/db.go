package db

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplPebble Implementation = "pebble"
	ImplBolt   Implementation = "bolt"
)

// ParseImplementation converts a config string into an Implementation.
// An empty string selects the default engine (pebble).
func ParseImplementation(s string) (Implementation, error) {
	switch Implementation(s) {
	case "", ImplPebble:
		return ImplPebble, nil
	case ImplBolt:
		return ImplBolt, nil
	default:
		return "", fmt.Errorf("unknown engine %q (expected one of: %s, %s)", s, ImplPebble, ImplBolt)
	}
}

// ErrClosed is returned by every operation on a database that has been closed.
var ErrClosed = errors.New("db: database is closed")

type DatabaseInfo struct {
	SizeBytes uint64         `json:"size_bytes"`
	DbType    Implementation `json:"db_type"`
	Path      string         `json:"path"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines the interface for an embedded, durable, ordered key-value engine.
// Keys and values are opaque byte strings. Implementations must be safe for concurrent
// use; callers that need read-modify-write atomicity across calls serialize externally.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates the entry for key. The write is durable when Set returns.
	Set(key, value []byte) (err error)

	// Delete removes the entry for key. existed reports whether an entry was present.
	Delete(key []byte) (existed bool, err error)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key. The returned slice is owned by the caller.
	// A missing key is reported with loaded=false and a nil error.
	Get(key []byte) (value []byte, loaded bool, err error)

	// SizeOnDisk returns the number of bytes the engine occupies on disk. It fails if the
	// on-disk location is no longer accessible.
	SizeOnDisk() (size uint64, err error)

	// Info returns metadata about the database.
	Info() (info DatabaseInfo)

	// Close flushes and closes the database.
	Close() (err error)
}
