package models

// ImportResult is the backend's summary after a catalog import.
type ImportResult struct {
	Imported int64  `json:"imported"`
	Skipped  int64  `json:"skipped"`
	Message  string `json:"message,omitempty"`
}
