// Package ingest holds what the import providers share.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsInserted int `json:"sessions_inserted"`
	SessionsSkipped  int `json:"sessions_skipped"`
	SetsReceived     int `json:"sets_received"`
	RecordsSet       int `json:"records_set"`

	Message string `json:"message,omitempty"`
}
