package domain

import "time"

// AuditRecord is one classification event in the audit log.
type AuditRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Level      Level     `json:"level"`
	Reason     string    `json:"reason"`
	Source     Source    `json:"source"`
	DurationMS int64     `json:"duration_ms"`
}
