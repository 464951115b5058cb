package taskstore

import (
	"sync"
	"time"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	"github.com/bryanwahyu/visual-qc/internal/domain/tasks"
)

// Memory is the in-memory task registry. Records live for the process
// lifetime unless a retention TTL is configured, in which case terminal
// records older than the TTL are swept.
//
// Concurrency model: one background execution is the sole writer for its
// record; status queries are read-shared. The mutex makes every transition
// one atomic step, and Get hands out copies, never live references.
type Memory struct {
	mu      sync.RWMutex
	records map[tasks.ID]*tasks.Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[tasks.ID]*tasks.Record)}
}

// Create inserts a fresh pending record and returns its snapshot.
func (m *Memory) Create(id tasks.ID, now time.Time) tasks.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &tasks.Record{
		TaskID:    id,
		Status:    tasks.StatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.records[id] = rec
	return snapshot(rec)
}

// Get returns a snapshot of the record, or ErrTaskNotFound.
func (m *Memory) Get(id tasks.ID) (tasks.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return tasks.Record{}, tasks.ErrTaskNotFound
	}
	return snapshot(rec), nil
}

func (m *Memory) MarkProcessing(id tasks.ID, progress int, now time.Time) error {
	return m.update(id, func(rec *tasks.Record) {
		if rec.Status.Terminal() {
			return
		}
		rec.Status = tasks.StatusProcessing
		if progress > rec.Progress {
			rec.Progress = progress
		}
		rec.UpdatedAt = now
	})
}

// SetProgress raises the progress marker. Progress never moves backwards.
func (m *Memory) SetProgress(id tasks.ID, progress int, now time.Time) error {
	return m.update(id, func(rec *tasks.Record) {
		if rec.Status.Terminal() || progress <= rec.Progress {
			return
		}
		rec.Progress = progress
		rec.UpdatedAt = now
	})
}

func (m *Memory) MarkCompleted(id tasks.ID, result *aicheck.CheckResult, now time.Time) error {
	return m.update(id, func(rec *tasks.Record) {
		if rec.Status.Terminal() {
			return
		}
		rec.Status = tasks.StatusCompleted
		rec.Progress = 100
		rec.Result = result
		rec.UpdatedAt = now
	})
}

func (m *Memory) MarkFailed(id tasks.ID, msg string, now time.Time) error {
	return m.update(id, func(rec *tasks.Record) {
		if rec.Status.Terminal() {
			return
		}
		rec.Status = tasks.StatusFailed
		rec.Error = msg
		rec.UpdatedAt = now
	})
}

func (m *Memory) update(id tasks.ID, fn func(*tasks.Record)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return tasks.ErrTaskNotFound
	}
	fn(rec)
	return nil
}

// Sweep removes terminal records last updated before cutoff and reports how
// many were evicted.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, rec := range m.records {
		if rec.Status.Terminal() && rec.UpdatedAt.Before(cutoff) {
			delete(m.records, id)
			n++
		}
	}
	return n
}

// Len reports the number of live records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func snapshot(rec *tasks.Record) tasks.Record {
	out := *rec
	if rec.Result != nil {
		res := *rec.Result
		res.Annotations = append([]aicheck.Annotation(nil), rec.Result.Annotations...)
		out.Result = &res
	}
	return out
}
