// Package model holds the request and response types of the HTTP API.
package model
