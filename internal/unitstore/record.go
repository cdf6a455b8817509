package unitstore

import "time"

// Status is the lifecycle state of a stored unit.
type Status string

const (
	// StatusPending marks a reserved unit that is being written or compiled.
	StatusPending Status = "pending"
	// StatusCompiled marks a unit the toolchain accepted.
	StatusCompiled Status = "compiled"
	// StatusFailed marks a unit the toolchain rejected. The file is kept for
	// inspection and regenerated on the next reservation.
	StatusFailed Status = "failed"
)

// Record is the index entry of a unit.
type Record struct {
	Name         string    `json:"name"`
	Hash         string    `json:"hash"`
	PID          int       `json:"pid"`
	Status       Status    `json:"status"`
	Error        string    `json:"error,omitempty"`
	Compilations int       `json:"compilations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
