// Package handler is the HTTP layer.
//
// Handlers bind and validate input, call one service method and hand the
// result back to the shared Handle pipeline, which logs, traces and writes
// the response.
package handler
