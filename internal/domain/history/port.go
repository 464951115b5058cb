package history

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Entry, error)
	LatestByAsset(ctx context.Context, assetID string) (*Entry, error)
}
