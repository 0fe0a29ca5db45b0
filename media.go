package noslack

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds max size")
)

const (
	VisibilityLink    = "link"
	VisibilityPrivate = "private"
)

// Media is the metadata record of one uploaded evidence file. It carries no
// reference to a specific activity log; the association is derived at read
// time from the day window of the log's occurredAt.
type Media struct {
	Id             int64
	CreatedAt      time.Time
	PactId         int64
	ActivityId     int64
	UserId         UserId
	Provider       string
	ProviderFileId string
	Name           string
	MimeType       string
	SizeBytes      int64
	Visibility     string
	WebViewLink    string
	WebContentLink string
}

type MediaStore interface {
	Create(ctx context.Context, media Media) (Media, error)

	// Media of (pact, activity, user) created within [start, end], oldest
	// first.
	ByOwnerInRange(ctx context.Context, pactId int64, activityId int64,
		userId UserId, start time.Time, end time.Time) ([]Media, error)
}

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"video/mp4":       {},
	"video/quicktime": {},
}

// FileLimits are the per-category upload size ceilings in bytes.
type FileLimits struct {
	MaxImageBytes int64
	MaxVideoBytes int64
}

func DefaultFileLimits() FileLimits {
	return FileLimits{
		MaxImageBytes: 10 << 20,
		MaxVideoBytes: 100 << 20,
	}
}

// ValidateFile admits a file by mime allow-list and category size ceiling.
// Runs before any storage-provider call.
func ValidateFile(mimeType string, sizeBytes int64, limits FileLimits) error {
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return ErrUnsupportedFileType
	}
	if strings.HasPrefix(mimeType, "image/") && sizeBytes > limits.MaxImageBytes {
		return ErrFileTooLarge
	}
	if strings.HasPrefix(mimeType, "video/") && sizeBytes > limits.MaxVideoBytes {
		return ErrFileTooLarge
	}
	return nil
}
