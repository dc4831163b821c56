package store

import (
	"fmt"

	"github.com/ValentinKolb/kvapp/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates the db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() (db.KVDB, error)

// IStore is the handle the HTTP layer uses to reach the embedded engine.
// A missing key is never an error: Get reports it through loaded and Delete through existed.
// All errors returned are *Error values describing an engine fault.
type IStore interface {
	// Get returns the value for key. loaded is false if the key has no current value.
	Get(key []byte) (value []byte, loaded bool, err error)
	// Put inserts or replaces the value for key.
	Put(key, value []byte) (err error)
	// Delete removes key. existed reports whether a value was removed.
	Delete(key []byte) (existed bool, err error)
	// Health probes the engine and returns its size on disk. Only the error is meaningful.
	Health() (sizeOnDisk uint64, err error)
	// GetDBInfo returns metadata about the database underlying the store.
	GetDBInfo() (info db.DatabaseInfo, err error)
	// Close releases the underlying database.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code  RetCode // The return code
	Msg   string  // The error message.
	Cause error   // The engine error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("StoreError (code %s): %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the engine error so errors.Is works through the store layer.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new store Error with the given code, message and cause.
func WrapError(code RetCode, msg string, cause error) *Error {
	return &Error{
		Code:  code,
		Msg:   msg,
		Cause: cause,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCInternalError RetCode = iota + 1 // 1: Command failed due to an engine fault.
	RetCClosed                           // 2: The store has been closed.
)

func (c RetCode) String() string {
	switch c {
	case RetCInternalError:
		return "InternalError"
	case RetCClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
