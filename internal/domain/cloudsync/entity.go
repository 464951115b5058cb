package cloudsync

import (
	"time"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// FileInfo describes one media file found in a remote folder.
type FileInfo struct {
	FileID        string            `json:"file_id"`
	FileName      string            `json:"file_name"`
	FileType      aicheck.AssetType `json:"file_type"`
	FileURL       string            `json:"file_url"`
	FileSizeBytes int64             `json:"file_size_bytes"`
	MimeType      string            `json:"mime_type"`
	CreatedTime   time.Time         `json:"created_time"`
	ModifiedTime  time.Time         `json:"modified_time"`
}

// SyncResult is the outcome of scanning one folder.
type SyncResult struct {
	ConnectionID    string     `json:"connection_id"`
	TotalFiles      int        `json:"total_files"`
	NewFiles        int        `json:"new_files"`
	Files           []FileInfo `json:"files"`
	SyncCompletedAt time.Time  `json:"sync_completed_at"`
}

// FolderInfo is folder metadata from the provider.
type FolderInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedTime  time.Time `json:"created_time"`
	ModifiedTime time.Time `json:"modified_time"`
}
