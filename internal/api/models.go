package api

import (
	"time"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// KeywordTask represents a queued keyword invocation
type KeywordTask struct {
	ID        string           `json:"id"`
	Keyword   string           `json:"keyword"`
	Args      []string         `json:"args"`
	Response  chan *TaskResult `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}

// TaskResult represents the outcome of a processed keyword
type TaskResult struct {
	Status string `json:"status"`
	// Return holds the keyword's return value for getter keywords.
	Return any    `json:"return,omitempty"`
	Error  error  `json:"-"`
	Kind   string `json:"kind,omitempty"`
}
