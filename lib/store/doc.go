// Package store provides the StoreHandle abstraction the HTTP layer talks to: four
// synchronous, fallible operations (Get, Put, Delete, Health) on byte keys and byte values.
//
// The package focuses on:
//   - A single interface (IStore) that separates absence from failure
//   - Coded errors (Error, RetCode) so callers never inspect engine-specific errors
//   - Pluggable storage engines through the DBFactory pattern
//
// Key Components:
//
//   - IStore Interface: Get returns (value, loaded, err) and Delete returns (existed, err).
//     A missing key therefore never produces an error; errors always mean the engine
//     failed (I/O, corruption, closed database). The HTTP layer maps the three outcomes
//     to 200, 404 and 500.
//
//   - Error System: every error leaving an IStore is a *Error carrying a RetCode and the
//     wrapped engine cause, reachable through errors.Is / errors.As.
//
//   - DBFactory: a function type that opens the underlying db.KVDB.
//
// Implementations:
//
//   - Local Store (lstore): wraps a db.KVDB opened by a DBFactory.
//     Available in the "github.com/ValentinKolb/kvapp/lib/store/lstore" package.
//
//   - Metered Store (mstore): a decorator that records timers and error counters for
//     every operation of another IStore in a go-metrics registry.
//     Available in the "github.com/ValentinKolb/kvapp/lib/store/mstore" package.
package store
