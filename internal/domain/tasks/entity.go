package tasks

import (
	"time"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// ID tipe untuk Task
type ID string

// Status enum. Lifecycle moves strictly forward:
// pending -> processing -> completed | failed. Terminal states never change.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record tracks one async-submitted evaluation.
// Result is set iff status is completed; Error is set iff status is failed.
type Record struct {
	TaskID    ID                   `json:"task_id"`
	Status    Status               `json:"status"`
	Progress  int                  `json:"progress"`
	Result    *aicheck.CheckResult `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
