package push

import "time"

// Payload is one notification as handed to the provider. Data carries client
// routing hints (at minimum a "screen" key).
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// BatchReport summarizes a multi-target send.
type BatchReport struct {
	SuccessCount   int `json:"success_count"`
	TotalAttempted int `json:"total_attempted"`
}

// Status describes gateway readiness for health checks.
type Status struct {
	Ready     bool   `json:"ready"`
	Provider  string `json:"provider"`
	LastError string `json:"last_error,omitempty"`
}

// AuditEntry records one delivery attempt, success or failure.
type AuditEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Kind      string    `json:"kind"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
