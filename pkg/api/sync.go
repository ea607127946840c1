// Package api holds the wire types spoken by the HTTP remote backend.
package api

import "time"

// Change represents one change log entry on the wire.
type Change struct {
	Timestamp time.Time      `json:"timestamp"`
	ID        string         `json:"id"`
	Operation string         `json:"operation"`
	Document  map[string]any `json:"document"`
}

// PushRequest is a bulk push of queued changes for one collection.
type PushRequest struct {
	Changes []Change `json:"changes"`
}

// PushResponse acknowledges a push.
type PushResponse struct {
	Accepted int `json:"accepted"`
}

// FetchResponse carries documents changed since the requested watermark.
type FetchResponse struct {
	Documents []map[string]any `json:"documents"`
}

// ErrorResponse is the error body returned by the backend.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
