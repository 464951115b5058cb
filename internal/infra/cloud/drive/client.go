package drive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	"github.com/bryanwahyu/visual-qc/internal/domain/cloudsync"
)

// supportedMimeTypes maps provider MIME types to asset types. Anything else
// in the folder is ignored.
var supportedMimeTypes = map[string]aicheck.AssetType{
	"image/jpeg":      aicheck.AssetImage,
	"image/png":       aicheck.AssetImage,
	"image/webp":      aicheck.AssetImage,
	"image/gif":       aicheck.AssetImage,
	"video/mp4":       aicheck.AssetVideo,
	"video/webm":      aicheck.AssetVideo,
	"video/quicktime": aicheck.AssetVideo,
}

const pageSize = 100

// Client lists media files from Google Drive folders.
type Client struct {
	svc *drive.Service
}

// New builds a client around a caller-supplied OAuth access token.
func New(ctx context.Context, accessToken string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("drive service init: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListFolder returns every supported media file in the folder, following
// pagination until exhausted.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]cloudsync.FileInfo, error) {
	var out []cloudsync.FileInfo
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(folderQuery(folderID)).
			PageSize(pageSize).
			Fields("nextPageToken, files(id, name, mimeType, size, createdTime, modifiedTime)").
			OrderBy("modifiedTime desc").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("drive list folder %s: %w", folderID, err)
		}

		for _, f := range resp.Files {
			assetType, ok := supportedMimeTypes[f.MimeType]
			if !ok {
				continue
			}
			out = append(out, cloudsync.FileInfo{
				FileID:        f.Id,
				FileName:      f.Name,
				FileType:      assetType,
				FileURL:       DownloadURL(f.Id),
				FileSizeBytes: f.Size,
				MimeType:      f.MimeType,
				CreatedTime:   parseDriveTime(f.CreatedTime),
				ModifiedTime:  parseDriveTime(f.ModifiedTime),
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return out, nil
		}
	}
}

// FolderInfo fetches folder metadata.
func (c *Client) FolderInfo(ctx context.Context, folderID string) (*cloudsync.FolderInfo, error) {
	f, err := c.svc.Files.Get(folderID).
		Fields("id, name, createdTime, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive get folder %s: %w", folderID, err)
	}
	return &cloudsync.FolderInfo{
		ID:           f.Id,
		Name:         f.Name,
		CreatedTime:  parseDriveTime(f.CreatedTime),
		ModifiedTime: parseDriveTime(f.ModifiedTime),
	}, nil
}

// folderQuery restricts the listing to supported media inside the folder.
func folderQuery(folderID string) string {
	conds := make([]string, 0, len(supportedMimeTypes))
	for mime := range supportedMimeTypes {
		conds = append(conds, fmt.Sprintf("mimeType='%s'", mime))
	}
	return fmt.Sprintf("'%s' in parents and (%s) and trashed=false",
		folderID, strings.Join(conds, " or "))
}

// DownloadURL derives the direct download link for a file id.
func DownloadURL(fileID string) string {
	return "https://drive.google.com/uc?export=download&id=" + fileID
}

func parseDriveTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
