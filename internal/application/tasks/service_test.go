package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/visual-qc/internal/application"
	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	domain "github.com/bryanwahyu/visual-qc/internal/domain/tasks"
	"github.com/bryanwahyu/visual-qc/internal/infra/taskstore"
)

// blockingChecker lets the test control when the evaluation finishes.
type blockingChecker struct {
	release chan struct{}
	result  aicheck.CheckResult
}

func (c *blockingChecker) CheckImage(_ context.Context, req aicheck.CheckRequest) aicheck.CheckResult {
	<-c.release
	res := c.result
	res.AssetID = req.AssetID
	return res
}

func newTaskService(c Checker) *Service {
	return &Service{
		Registry: taskstore.NewMemory(),
		Checker:  c,
		Clock:    application.SystemClock{},
	}
}

func waitForTerminal(t *testing.T, s *Service, id domain.ID) domain.Record {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := s.Status(id)
		require.NoError(t, err)
		if rec.Status.Terminal() {
			return rec
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("task did not reach a terminal state")
	return domain.Record{}
}

func TestSubmit_ReturnsPendingImmediately(t *testing.T) {
	checker := &blockingChecker{
		release: make(chan struct{}),
		result:  aicheck.CheckResult{Status: aicheck.CheckCompleted, ConfidenceScore: 100},
	}
	svc := newTaskService(checker)

	rec := svc.Submit(aicheck.CheckRequest{AssetID: "A1", FileURL: "http://img/a1"})
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Zero(t, rec.Progress)
	assert.Nil(t, rec.Result)
	assert.NotEmpty(t, rec.TaskID)

	close(checker.release)
	final := waitForTerminal(t, svc, rec.TaskID)
	assert.Equal(t, domain.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.Result)
	assert.Equal(t, "A1", final.Result.AssetID)
	assert.Empty(t, final.Error)
}

func TestSubmit_FailedEvaluationMarksTaskFailed(t *testing.T) {
	checker := &blockingChecker{
		release: make(chan struct{}),
		result:  aicheck.CheckResult{Status: aicheck.CheckFailed, Message: "retries exhausted"},
	}
	svc := newTaskService(checker)
	close(checker.release)

	rec := svc.Submit(aicheck.CheckRequest{AssetID: "A1"})
	final := waitForTerminal(t, svc, rec.TaskID)
	assert.Equal(t, domain.StatusFailed, final.Status)
	assert.Equal(t, "retries exhausted", final.Error)
	assert.Nil(t, final.Result)
}

type panickyChecker struct{}

func (panickyChecker) CheckImage(context.Context, aicheck.CheckRequest) aicheck.CheckResult {
	panic("unexpected fault")
}

func TestSubmit_PanicBecomesFailedTask(t *testing.T) {
	svc := newTaskService(panickyChecker{})
	rec := svc.Submit(aicheck.CheckRequest{AssetID: "A1"})
	final := waitForTerminal(t, svc, rec.TaskID)
	assert.Equal(t, domain.StatusFailed, final.Status)
	assert.Equal(t, "internal error", final.Error)
}

func TestStatus_UnknownID(t *testing.T) {
	svc := newTaskService(panickyChecker{})
	_, err := svc.Status("no-such-task")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSubmit_ProgressIsMonotone(t *testing.T) {
	checker := &blockingChecker{
		release: make(chan struct{}),
		result:  aicheck.CheckResult{Status: aicheck.CheckCompleted},
	}
	svc := newTaskService(checker)
	rec := svc.Submit(aicheck.CheckRequest{AssetID: "A1"})
	close(checker.release)

	last := -1
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := svc.Status(rec.TaskID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.Progress, last, "progress went backwards")
		last = got.Progress
		if got.Status.Terminal() {
			break
		}
	}
	assert.Equal(t, 100, last)
}

// invariant check at every observed snapshot: result iff completed, error iff failed
func TestSnapshots_ResultErrorInvariant(t *testing.T) {
	checker := &blockingChecker{
		release: make(chan struct{}),
		result:  aicheck.CheckResult{Status: aicheck.CheckCompleted},
	}
	svc := newTaskService(checker)
	rec := svc.Submit(aicheck.CheckRequest{AssetID: "A1"})
	close(checker.release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := svc.Status(rec.TaskID)
		require.NoError(t, err)
		assert.Equal(t, got.Status == domain.StatusCompleted, got.Result != nil)
		assert.Equal(t, got.Status == domain.StatusFailed, got.Error != "")
		if got.Status.Terminal() {
			return
		}
	}
	t.Fatal("task never finished")
}
