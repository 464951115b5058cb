package aicheck

import (
	"context"

	"golang.org/x/sync/errgroup"

	domain "github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// CheckBatch fans out one evaluation per request, all concurrent, and
// reassembles results in input order. Per-asset failures are already typed
// results from CheckImage, so one bad asset never aborts its siblings.
func (s *Service) CheckBatch(ctx context.Context, reqs []domain.CheckRequest) domain.BatchResult {
	results := make([]domain.CheckResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if s.MaxConcurrency > 0 {
		g.SetLimit(s.MaxConcurrency)
	}
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = s.CheckImage(ctx, req)
			return nil
		})
	}
	// workers never return errors; Wait is only a join point
	_ = g.Wait()

	out := domain.BatchResult{
		Total:   len(reqs),
		Results: results,
	}
	for _, r := range results {
		if r.Status == domain.CheckFailed {
			out.Failed++
		}
	}
	out.Completed = out.Total - out.Failed
	return out
}
