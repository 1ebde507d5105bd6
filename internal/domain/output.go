package domain

import "time"

// OutputRecord holds the full captured output of an executed command so the
// agent can page through it later without re-running the command.
type OutputRecord struct {
	ID           string    `json:"id"`
	Command      string    `json:"command"`
	FullOutput   string    `json:"full_output"`
	ConnectionID string    `json:"connection_id"`
	CreatedAt    time.Time `json:"created_at"`
}
