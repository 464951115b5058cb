package aicheck

// AssetType enum
type AssetType string

const (
	AssetImage AssetType = "image"
	AssetVideo AssetType = "video"
)

// Category enum for detected issues
type Category string

const (
	CategoryTypo           Category = "typo"
	CategorySpecError      Category = "spec_error"
	CategoryPriceError     Category = "price_error"
	CategoryBrandViolation Category = "brand_violation"
	CategoryForbiddenWord  Category = "forbidden_word"
	CategorySuggestion     Category = "suggestion"
)

// ValidCategory reports whether c is one of the six known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTypo, CategorySpecError, CategoryPriceError,
		CategoryBrandViolation, CategoryForbiddenWord, CategorySuggestion:
		return true
	}
	return false
}

// Severity enum
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s Severity) bool {
	return s == SeverityError || s == SeverityWarning || s == SeverityInfo
}

// CheckStatus enum
type CheckStatus string

const (
	CheckCompleted CheckStatus = "completed"
	CheckFailed    CheckStatus = "failed"
)

// Annotation is one issue detected on an asset.
// Position is free-form: pixel box for images, time offset for video frames.
type Annotation struct {
	Category             Category       `json:"type"`
	Severity             Severity       `json:"severity"`
	Position             map[string]any `json:"position,omitempty"`
	DetectedText         string         `json:"detected_text,omitempty"`
	ExpectedText         string         `json:"expected_text,omitempty"`
	CorrectionSuggestion string         `json:"correction_suggestion,omitempty"`
	CreativeSuggestion   string         `json:"creative_suggestion,omitempty"`
	Confidence           float64        `json:"confidence"`
}

// ImageRef points at the asset to analyze: either a fetchable URL or
// inline base64 bytes with a declared MIME type.
type ImageRef struct {
	URL      string
	Base64   string
	MimeType string
}

// CheckRequest is one asset submitted for analysis. Immutable once submitted.
type CheckRequest struct {
	AssetID    string    `json:"asset_id"`
	FileURL    string    `json:"file_url,omitempty"`
	FileBase64 string    `json:"file_base64,omitempty"`
	MimeType   string    `json:"mime_type,omitempty"`
	FileType   AssetType `json:"file_type,omitempty"`
	Rules      []Rule    `json:"rules,omitempty"`
}

// ImageRef builds the gateway-facing reference from the request fields.
func (r CheckRequest) ImageRef() ImageRef {
	if r.FileURL != "" {
		return ImageRef{URL: r.FileURL}
	}
	mime := r.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return ImageRef{Base64: r.FileBase64, MimeType: mime}
}

// CheckResult is the outcome of evaluating one asset.
type CheckResult struct {
	AssetID          string       `json:"asset_id"`
	Status           CheckStatus  `json:"status"`
	ErrorCount       int          `json:"error_count"`
	WarningCount     int          `json:"warning_count"`
	SuggestionCount  int          `json:"suggestion_count"`
	ConfidenceScore  float64      `json:"ai_confidence_score"`
	Annotations      []Annotation `json:"annotations"`
	ProcessingTimeMS int64        `json:"processing_time_ms"`
	Message          string       `json:"message,omitempty"`
}

// BatchResult aggregates per-asset results in submission order.
type BatchResult struct {
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Results   []CheckResult `json:"results"`
}
