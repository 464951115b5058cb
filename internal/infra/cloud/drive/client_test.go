package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderQuery(t *testing.T) {
	q := folderQuery("folder-123")
	assert.Contains(t, q, "'folder-123' in parents")
	assert.Contains(t, q, "trashed=false")
	assert.Contains(t, q, "mimeType='image/jpeg'")
	assert.Contains(t, q, "mimeType='video/mp4'")
}

func TestDownloadURL(t *testing.T) {
	assert.Equal(t,
		"https://drive.google.com/uc?export=download&id=abc",
		DownloadURL("abc"))
}

func TestParseDriveTime_Invalid(t *testing.T) {
	assert.True(t, parseDriveTime("garbage").IsZero())
}

func TestParseDriveTime_RFC3339(t *testing.T) {
	got := parseDriveTime("2025-06-01T12:30:00.000Z")
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, 30, got.Minute())
}
