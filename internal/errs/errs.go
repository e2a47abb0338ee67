// Package errs defines the error shapes the API returns.
//
// Every failure that leaves a handler is an *HTTPError, serialized as
// {code, message, status, override, errors}. The SQL console is the one
// exception: its failures use the bare {"error": "..."} body.
package errs
