package tasks

import (
	"time"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// Registry port (interface untuk task state storage).
// Each task record has exactly one writer: the background execution bound to
// it. Readers get value snapshots, never live references. Every mutation is
// one atomic transition and refreshes UpdatedAt.
type Registry interface {
	Create(id ID, now time.Time) Record
	Get(id ID) (Record, error)

	// Forward-only transitions. Each returns ErrTaskNotFound for unknown ids.
	MarkProcessing(id ID, progress int, now time.Time) error
	SetProgress(id ID, progress int, now time.Time) error
	MarkCompleted(id ID, result *aicheck.CheckResult, now time.Time) error
	MarkFailed(id ID, msg string, now time.Time) error
}
