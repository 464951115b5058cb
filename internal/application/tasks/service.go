package tasks

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/visual-qc/internal/application"
	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	domain "github.com/bryanwahyu/visual-qc/internal/domain/tasks"
	"github.com/bryanwahyu/visual-qc/internal/middleware"
)

// Checker is the evaluator the detached execution drives.
type Checker interface {
	CheckImage(ctx context.Context, req aicheck.CheckRequest) aicheck.CheckResult
}

// Sweeper is the optional eviction capability of a registry.
type Sweeper interface {
	Sweep(cutoff time.Time) int
}

// Service implements use-cases untuk async AI checks.
type Service struct {
	Registry domain.Registry
	Checker  Checker
	Clock    application.Clock

	// Retention evicts terminal tasks older than this; 0 keeps them for the
	// process lifetime.
	Retention time.Duration
}

// Submit registers a pending task, schedules its detached execution and
// returns the pending snapshot immediately.
func (s *Service) Submit(req aicheck.CheckRequest) domain.Record {
	id := domain.ID(uuid.New().String())
	rec := s.Registry.Create(id, s.Clock.Now())

	// Run detached with context.Background() so the work survives the
	// submitting request. This goroutine is the record's only writer.
	go s.run(context.Background(), id, req)

	return rec
}

// Status returns the current snapshot, or domain.ErrTaskNotFound.
func (s *Service) Status(id domain.ID) (domain.Record, error) {
	return s.Registry.Get(id)
}

func (s *Service) run(ctx context.Context, id domain.ID, req aicheck.CheckRequest) {
	middleware.IncrementTasksRunning()
	defer middleware.DecrementTasksRunning()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("task %s panicked: %v", id, r)
			_ = s.Registry.MarkFailed(id, "internal error", s.Clock.Now())
		}
	}()

	_ = s.Registry.MarkProcessing(id, 10, s.Clock.Now())

	res := s.Checker.CheckImage(ctx, req)
	if res.Status == aicheck.CheckFailed {
		_ = s.Registry.MarkFailed(id, res.Message, s.Clock.Now())
		return
	}

	_ = s.Registry.SetProgress(id, 80, s.Clock.Now())
	_ = s.Registry.MarkCompleted(id, &res, s.Clock.Now())
}

// StartJanitor sweeps expired terminal tasks until stop is closed. No-op
// when retention is unset or the registry cannot sweep.
func (s *Service) StartJanitor(stop <-chan struct{}) {
	sw, ok := s.Registry.(Sweeper)
	if !ok || s.Retention <= 0 {
		return
	}
	interval := s.Retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if n := sw.Sweep(s.Clock.Now().Add(-s.Retention)); n > 0 {
					log.Printf("task janitor evicted %d finished tasks", n)
				}
			}
		}
	}()
}
