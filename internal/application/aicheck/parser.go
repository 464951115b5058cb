package aicheck

import (
	"encoding/json"
	"log"

	domain "github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// rawAnnotation mirrors one element of the model's "annotations" array.
type rawAnnotation struct {
	Type                 string         `json:"type"`
	Severity             string         `json:"severity"`
	Position             map[string]any `json:"position"`
	DetectedText         string         `json:"detected_text"`
	ExpectedText         string         `json:"expected_text"`
	CorrectionSuggestion string         `json:"correction_suggestion"`
	CreativeSuggestion   string         `json:"creative_suggestion"`
	Confidence           float64        `json:"confidence"`
}

// ParseAnnotations converts the raw model output into annotation records.
// It never fails the caller: a malformed response degrades to an empty list
// and is logged. Entries with an unknown category are skipped; the rest of
// the parse continues. Unknown severity defaults to warning, missing
// confidence to 0.
func ParseAnnotations(raw string, assetID string) []domain.Annotation {
	var payload struct {
		Annotations []rawAnnotation `json:"annotations"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("parse annotations failed for asset=%s: %v", assetID, err)
		return []domain.Annotation{}
	}

	out := make([]domain.Annotation, 0, len(payload.Annotations))
	for _, item := range payload.Annotations {
		cat := domain.Category(item.Type)
		if !domain.ValidCategory(cat) {
			log.Printf("skipping annotation with unknown category=%q for asset=%s", item.Type, assetID)
			continue
		}
		sev := domain.Severity(item.Severity)
		if !domain.ValidSeverity(sev) {
			sev = domain.SeverityWarning
		}
		out = append(out, domain.Annotation{
			Category:             cat,
			Severity:             sev,
			Position:             item.Position,
			DetectedText:         item.DetectedText,
			ExpectedText:         item.ExpectedText,
			CorrectionSuggestion: item.CorrectionSuggestion,
			CreativeSuggestion:   item.CreativeSuggestion,
			Confidence:           item.Confidence,
		})
	}
	return out
}
