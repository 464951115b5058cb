package taskstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	"github.com/bryanwahyu/visual-qc/internal/domain/tasks"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMemory_CreateAndGet(t *testing.T) {
	m := NewMemory()
	rec := m.Create("t-1", t0)
	assert.Equal(t, tasks.StatusPending, rec.Status)
	assert.Zero(t, rec.Progress)
	assert.Nil(t, rec.Result)
	assert.Empty(t, rec.Error)

	got, err := m.Get("t-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestMemory_GetUnknownID(t *testing.T) {
	m := NewMemory()
	_, err := m.Get("never-submitted")
	assert.ErrorIs(t, err, tasks.ErrTaskNotFound)
	// the failed lookup must not materialize a record
	assert.Zero(t, m.Len())
}

func TestMemory_LifecycleTransitions(t *testing.T) {
	m := NewMemory()
	m.Create("t-1", t0)

	require.NoError(t, m.MarkProcessing("t-1", 10, t0.Add(time.Second)))
	got, _ := m.Get("t-1")
	assert.Equal(t, tasks.StatusProcessing, got.Status)
	assert.Equal(t, 10, got.Progress)

	require.NoError(t, m.SetProgress("t-1", 80, t0.Add(2*time.Second)))
	got, _ = m.Get("t-1")
	assert.Equal(t, 80, got.Progress)

	res := &aicheck.CheckResult{AssetID: "A1", Status: aicheck.CheckCompleted, ConfidenceScore: 100}
	require.NoError(t, m.MarkCompleted("t-1", res, t0.Add(3*time.Second)))
	got, _ = m.Get("t-1")
	assert.Equal(t, tasks.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Result)
	assert.Equal(t, "A1", got.Result.AssetID)
	assert.Empty(t, got.Error)
	assert.Equal(t, t0.Add(3*time.Second), got.UpdatedAt)
}

func TestMemory_TerminalStatesAreFinal(t *testing.T) {
	m := NewMemory()
	m.Create("t-1", t0)
	require.NoError(t, m.MarkFailed("t-1", "boom", t0))

	// further transitions are no-ops
	require.NoError(t, m.MarkProcessing("t-1", 10, t0.Add(time.Second)))
	require.NoError(t, m.MarkCompleted("t-1", &aicheck.CheckResult{}, t0.Add(time.Second)))

	got, _ := m.Get("t-1")
	assert.Equal(t, tasks.StatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
	assert.Nil(t, got.Result)
}

func TestMemory_ProgressNeverDecreases(t *testing.T) {
	m := NewMemory()
	m.Create("t-1", t0)
	require.NoError(t, m.MarkProcessing("t-1", 10, t0))
	require.NoError(t, m.SetProgress("t-1", 80, t0))
	require.NoError(t, m.SetProgress("t-1", 10, t0))
	got, _ := m.Get("t-1")
	assert.Equal(t, 80, got.Progress)
}

func TestMemory_SnapshotIsolation(t *testing.T) {
	m := NewMemory()
	m.Create("t-1", t0)
	res := &aicheck.CheckResult{
		AssetID:     "A1",
		Annotations: []aicheck.Annotation{{Category: aicheck.CategoryTypo, Severity: aicheck.SeverityError}},
	}
	require.NoError(t, m.MarkCompleted("t-1", res, t0))

	got, _ := m.Get("t-1")
	got.Result.AssetID = "tampered"
	got.Result.Annotations[0].Category = aicheck.CategorySuggestion

	fresh, _ := m.Get("t-1")
	assert.Equal(t, "A1", fresh.Result.AssetID)
	assert.Equal(t, aicheck.CategoryTypo, fresh.Result.Annotations[0].Category)
}

func TestMemory_SweepEvictsOnlyOldTerminalRecords(t *testing.T) {
	m := NewMemory()
	m.Create("done-old", t0)
	require.NoError(t, m.MarkCompleted("done-old", &aicheck.CheckResult{}, t0))
	m.Create("done-new", t0)
	require.NoError(t, m.MarkCompleted("done-new", &aicheck.CheckResult{}, t0.Add(time.Hour)))
	m.Create("running", t0)
	require.NoError(t, m.MarkProcessing("running", 10, t0))

	n := m.Sweep(t0.Add(30 * time.Minute))
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, m.Len())

	_, err := m.Get("done-old")
	assert.ErrorIs(t, err, tasks.ErrTaskNotFound)
	_, err = m.Get("running")
	assert.NoError(t, err)
}
