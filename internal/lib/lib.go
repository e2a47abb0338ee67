// Package lib holds supporting code that is not a request layer.
//
// Today that is the background job queue (lib/job), which records console
// executions in the audit table off the request path.
package lib
