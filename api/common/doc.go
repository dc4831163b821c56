// Package common contains everything shared by the HTTP server, the HTTP client and the
// CLI: the wire types (ApiError envelope and success bodies), the store descriptor loader,
// the server and client configuration structs and the logger factory.
//
// Wire format:
//
//	GET /            -> {"name": "kvapp", "version": "...", "database_info": {"name": "<nickname>"}}
//	GET /health      -> {"healthy": true}
//	GET /api/{key}   -> raw value bytes (application/octet-stream)
//	PUT /api/{key}   -> {"result": true}
//	DELETE /api/{key}-> {"result": true}
//
// Failures carry {"error": {"code": -404, "message": "not found"}} or
// {"error": {"code": -500, "message": "internal server error"}}.
//
// Logging:
//
// InitLoggers replaces dragonboat's default logger factory with one backed by zap. All
// packages keep using logger.GetLogger(<component>), so the factory decides the output format.
package common
