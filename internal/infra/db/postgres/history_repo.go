package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/visual-qc/internal/domain/history"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Save inserts or updates a completed check record
func (r *HistoryRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO ai_check_history
  (id, asset_id, file_url, status, error_count, warning_count, suggestion_count, confidence_score, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  asset_id=EXCLUDED.asset_id,
  file_url=EXCLUDED.file_url,
  status=EXCLUDED.status,
  error_count=EXCLUDED.error_count,
  warning_count=EXCLUDED.warning_count,
  suggestion_count=EXCLUDED.suggestion_count,
  confidence_score=EXCLUDED.confidence_score,
  result_json=EXCLUDED.result_json;
`
	result := e.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, e.ID, e.AssetID, e.FileURL, e.Status,
		e.ErrorCount, e.WarningCount, e.SuggestionCount, e.ConfidenceScore, result, createdAt)
	return err
}

// Paginate returns a page of check records ordered by created_at desc
func (r *HistoryRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Entry, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, asset_id, file_url, status, error_count, warning_count, suggestion_count, confidence_score, result_json, created_at
FROM ai_check_history
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var created time.Time
		if err := rows.Scan(&e.ID, &e.AssetID, &e.FileURL, &e.Status, &e.ErrorCount,
			&e.WarningCount, &e.SuggestionCount, &e.ConfidenceScore, &e.Result, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}

// LatestByAsset returns the most recent check for an asset, or nil
func (r *HistoryRepository) LatestByAsset(ctx context.Context, assetID string) (*domain.Entry, error) {
	const q = `
SELECT id, asset_id, file_url, status, error_count, warning_count, suggestion_count, confidence_score, result_json, created_at
FROM ai_check_history
WHERE asset_id=$1
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, assetID)
	var e domain.Entry
	var created time.Time
	if err := row.Scan(&e.ID, &e.AssetID, &e.FileURL, &e.Status, &e.ErrorCount,
		&e.WarningCount, &e.SuggestionCount, &e.ConfidenceScore, &e.Result, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.CreatedAt = created
	return &e, nil
}
