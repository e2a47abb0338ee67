// Package middleware holds the echo middleware and the global error handler.
//
// Order matters and is fixed in the router: request id, New Relic, tracing
// attributes, context logger, request logger, recover, then per-group
// middleware such as the /api rate limiter.
package middleware
