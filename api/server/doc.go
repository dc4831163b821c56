// Package server implements the HTTP front end of kvapp.
//
// Routing table:
//
//	GET    /            service description and the nickname of the store
//	GET    /health      {"healthy": true}, or 500 if the store cannot be reached
//	GET    /api/{key}   raw value, 404 if the key has no value
//	PUT    /api/{key}   stores the request body as the value of key (at most Options.MaxValueBytes)
//	DELETE /api/{key}   removes key, 404 if it had no value
//	GET    /metrics     Prometheus text format (optional)
//	GET    /stats       database info and store operation timers as JSON (optional)
//
// Any other GET is answered with the not-found error envelope, any other method with 405.
//
// Concurrency:
//
// net/http serves every connection on its own goroutine. Handlers reach the store only
// through ServerState.Do, which holds one mutex for exactly one store operation. A PUT
// that has returned is therefore visible to every GET that starts later.
package server
