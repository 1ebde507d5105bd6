package domain

import "time"

// LockInfo is the JSON payload written to the single-instance lock file.
type LockInfo struct {
	PID        int       `json:"pid"`
	InstanceID string    `json:"instance_id"`
	Timestamp  time.Time `json:"timestamp"`
}
