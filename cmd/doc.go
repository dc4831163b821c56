// Package cmd implements the command-line interface of kvapp. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the HTTP server for the store named in the config file
//   - kv: Client commands (get, put, del, health, info, check, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Flags can also be set through KVAPP_<FLAG> environment variables or a .env file.
// See kvapp -help for a list of all commands.
package cmd
