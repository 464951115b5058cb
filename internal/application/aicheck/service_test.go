package aicheck

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/visual-qc/internal/application"
	domain "github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// stubVision returns canned output per asset, keyed by the image URL.
type stubVision struct {
	mu    sync.Mutex
	raw   map[string]string
	errs  map[string]error
	calls int
}

func (s *stubVision) Analyze(_ context.Context, image domain.ImageRef, _ []domain.Rule) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err, ok := s.errs[image.URL]; ok {
		return "", err
	}
	if raw, ok := s.raw[image.URL]; ok {
		return raw, nil
	}
	return `{"annotations": []}`, nil
}

func newService(v domain.Vision) *Service {
	return &Service{Vision: v, Clock: application.SystemClock{}}
}

func TestCheckImage_AggregatesCountsAndConfidence(t *testing.T) {
	raw := `{"annotations": [
		{"type": "typo", "severity": "error", "confidence": 90},
		{"type": "price_error", "severity": "error", "confidence": 80},
		{"type": "brand_violation", "severity": "warning", "confidence": 70},
		{"type": "suggestion", "severity": "info", "confidence": 60}
	]}`
	svc := newService(&stubVision{raw: map[string]string{"http://img/1": raw}})

	res := svc.CheckImage(context.Background(), domain.CheckRequest{
		AssetID: "a-1", FileURL: "http://img/1",
	})

	assert.Equal(t, domain.CheckCompleted, res.Status)
	assert.Equal(t, "a-1", res.AssetID)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Equal(t, 1, res.WarningCount)
	assert.Equal(t, 1, res.SuggestionCount)
	assert.InDelta(t, 75.0, res.ConfidenceScore, 1e-9)
	assert.Len(t, res.Annotations, 4)
}

func TestCheckImage_EmptyAnnotationsScores100(t *testing.T) {
	svc := newService(&stubVision{})
	res := svc.CheckImage(context.Background(), domain.CheckRequest{
		AssetID: "clean", FileURL: "http://img/clean",
	})
	assert.Equal(t, domain.CheckCompleted, res.Status)
	assert.Equal(t, 100.0, res.ConfidenceScore)
	assert.Empty(t, res.Annotations)
}

func TestCheckImage_GatewayFailureBecomesTypedResult(t *testing.T) {
	svc := newService(&stubVision{errs: map[string]error{
		"http://img/bad": errors.New("upstream exploded"),
	}})

	res := svc.CheckImage(context.Background(), domain.CheckRequest{
		AssetID: "bad", FileURL: "http://img/bad",
	})

	assert.Equal(t, domain.CheckFailed, res.Status)
	assert.Zero(t, res.ErrorCount)
	assert.Zero(t, res.WarningCount)
	assert.Zero(t, res.SuggestionCount)
	assert.Zero(t, res.ConfidenceScore)
	assert.Empty(t, res.Annotations)
	assert.Contains(t, res.Message, "upstream exploded")
}

func TestCheckImage_MalformedModelOutputCompletesEmpty(t *testing.T) {
	svc := newService(&stubVision{raw: map[string]string{"http://img/junk": "<<not json>>"}})
	res := svc.CheckImage(context.Background(), domain.CheckRequest{
		AssetID: "junk", FileURL: "http://img/junk",
	})
	assert.Equal(t, domain.CheckCompleted, res.Status)
	assert.Empty(t, res.Annotations)
	assert.Equal(t, 100.0, res.ConfidenceScore)
}

type fixedClock struct {
	mu  sync.Mutex
	t   time.Time
	add time.Duration
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.add)
	return now
}

func TestCheckImage_ElapsedTimeFromClock(t *testing.T) {
	clk := &fixedClock{t: time.Unix(0, 0), add: 250 * time.Millisecond}
	svc := &Service{Vision: &stubVision{}, Clock: clk}
	res := svc.CheckImage(context.Background(), domain.CheckRequest{AssetID: "a", FileURL: "http://img/a"})
	assert.Equal(t, int64(250), res.ProcessingTimeMS)
}
