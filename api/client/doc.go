// Package client provides a Go client for the kvapp HTTP API built on resty.
//
// Absence is not an error: Get and Delete report a 404 through their boolean result.
// Every other non-success response is returned as an error, as *common.ApiError when
// the server sent an error envelope.
package client
