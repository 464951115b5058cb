package aicheck

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/bryanwahyu/visual-qc/internal/application"
	domain "github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	"github.com/bryanwahyu/visual-qc/internal/domain/history"
)

// Service implements use-cases untuk AI checks.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Vision  domain.Vision
	Clock   application.Clock
	History history.Repository // optional: persisted audit trail
	Archive ArtifactArchiver   // optional: raw model output archive

	// MaxConcurrency caps batch fan-out; 0 means unlimited.
	MaxConcurrency int
}

// ArtifactArchiver stores raw model output for later inspection.
type ArtifactArchiver interface {
	ArchiveJSON(ctx context.Context, key string, body []byte) (string, error)
}

// CheckImage drives one asset through gateway, parser and aggregation.
// Gateway failure (after retries) is converted into a typed failed result,
// never an error: per-asset failure is data, not a fault.
func (s *Service) CheckImage(ctx context.Context, req domain.CheckRequest) domain.CheckResult {
	start := s.Clock.Now()

	raw, err := s.Vision.Analyze(ctx, req.ImageRef(), req.Rules)
	if err != nil {
		log.Printf("ai check failed for asset=%s: %v", req.AssetID, err)
		return domain.CheckResult{
			AssetID:          req.AssetID,
			Status:           domain.CheckFailed,
			Annotations:      []domain.Annotation{},
			ProcessingTimeMS: s.Clock.Now().Sub(start).Milliseconds(),
			Message:          err.Error(),
		}
	}

	annotations := ParseAnnotations(raw, req.AssetID)
	res := aggregate(req.AssetID, annotations)
	res.ProcessingTimeMS = s.Clock.Now().Sub(start).Milliseconds()

	s.record(ctx, req, res, raw)
	return res
}

// aggregate partitions annotations by severity and computes the mean
// confidence. An empty list means "no issues found", scored 100.0.
func aggregate(assetID string, annotations []domain.Annotation) domain.CheckResult {
	res := domain.CheckResult{
		AssetID:     assetID,
		Status:      domain.CheckCompleted,
		Annotations: annotations,
	}
	if len(annotations) == 0 {
		res.ConfidenceScore = 100.0
		return res
	}

	var sum float64
	for _, a := range annotations {
		switch a.Severity {
		case domain.SeverityError:
			res.ErrorCount++
		case domain.SeverityWarning:
			res.WarningCount++
		case domain.SeverityInfo:
			res.SuggestionCount++
		}
		sum += a.Confidence
	}
	res.ConfidenceScore = sum / float64(len(annotations))
	return res
}

// record persists the completed check to the optional history repo and
// artifact archive. Failures here are logged, never surfaced: auditing must
// not break request handling.
func (s *Service) record(ctx context.Context, req domain.CheckRequest, res domain.CheckResult, raw string) {
	if s.History != nil {
		resultJSON, _ := json.Marshal(res)
		entry := &history.Entry{
			ID:              history.EntryID(uuid.New().String()),
			AssetID:         req.AssetID,
			FileURL:         req.FileURL,
			Status:          string(res.Status),
			ErrorCount:      res.ErrorCount,
			WarningCount:    res.WarningCount,
			SuggestionCount: res.SuggestionCount,
			ConfidenceScore: res.ConfidenceScore,
			Result:          string(resultJSON),
			CreatedAt:       s.Clock.Now(),
		}
		if err := s.History.Save(ctx, entry); err != nil {
			log.Printf("history save failed for asset=%s: %v", req.AssetID, err)
		}
	}
	if s.Archive != nil {
		key := req.AssetID + "/" + s.Clock.Now().UTC().Format("20060102T150405") + ".json"
		if _, err := s.Archive.ArchiveJSON(ctx, key, []byte(raw)); err != nil {
			log.Printf("artifact archive failed for asset=%s: %v", req.AssetID, err)
		}
	}
}
