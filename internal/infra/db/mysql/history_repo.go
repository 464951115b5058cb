package mysql

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

// Save inserts a completed check record
func (r *HistoryRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO ai_check_history
  (id, asset_id, file_url, status, error_count, warning_count, suggestion_count, confidence_score, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  asset_id=VALUES(asset_id), file_url=VALUES(file_url), status=VALUES(status),
  error_count=VALUES(error_count), warning_count=VALUES(warning_count),
  suggestion_count=VALUES(suggestion_count), confidence_score=VALUES(confidence_score),
  result_json=VALUES(result_json);
`
	result := e.Result
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
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
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LatestByAsset returns the most recent check for an asset, or nil
func (r *HistoryRepository) LatestByAsset(ctx context.Context, assetID string) (*domain.Entry, error) {
	const q = `
SELECT id, asset_id, file_url, status, error_count, warning_count, suggestion_count, confidence_score, result_json, created_at
FROM ai_check_history
WHERE asset_id=?
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

func scanEntry(rows *sql.Rows) (*domain.Entry, error) {
	var e domain.Entry
	var created time.Time
	if err := rows.Scan(&e.ID, &e.AssetID, &e.FileURL, &e.Status, &e.ErrorCount,
		&e.WarningCount, &e.SuggestionCount, &e.ConfidenceScore, &e.Result, &created); err != nil {
		return nil, err
	}
	e.CreatedAt = created
	return &e, nil
}
