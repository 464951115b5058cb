package history

import "time"

// EntryID identifier type
type EntryID string

// Entry represents a completed AI check stored for auditing and retrieval
type Entry struct {
	ID              EntryID   `json:"id"`
	AssetID         string    `json:"asset_id"`
	FileURL         string    `json:"file_url"`
	Status          string    `json:"status"`
	ErrorCount      int       `json:"error_count"`
	WarningCount    int       `json:"warning_count"`
	SuggestionCount int       `json:"suggestion_count"`
	ConfidenceScore float64   `json:"ai_confidence_score"`
	Result          string    `json:"result"` // JSON string from AI
	CreatedAt       time.Time `json:"created_at"`
}
