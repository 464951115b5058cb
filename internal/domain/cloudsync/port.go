package cloudsync

import "context"

// Drive port (interface untuk the cloud storage provider)
type Drive interface {
	ListFolder(ctx context.Context, folderID string) ([]FileInfo, error)
	FolderInfo(ctx context.Context, folderID string) (*FolderInfo, error)
}
