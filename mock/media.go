package mock

import (
	"context"
	"io"
	"time"

	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/drive"
)

type MediaStore struct {
	CreateFn func(ctx context.Context, media noslack.Media) (noslack.Media, error)

	ByOwnerInRangeFn func(ctx context.Context, pactId int64, activityId int64,
		userId noslack.UserId, start time.Time, end time.Time) ([]noslack.Media, error)
}

func (s MediaStore) Create(ctx context.Context, media noslack.Media) (noslack.Media, error) {
	return s.CreateFn(ctx, media)
}

func (s MediaStore) ByOwnerInRange(ctx context.Context, pactId int64, activityId int64,
	userId noslack.UserId, start time.Time, end time.Time) ([]noslack.Media, error) {
	return s.ByOwnerInRangeFn(ctx, pactId, activityId, userId, start, end)
}

type MediaStorage struct {
	ResolveRootFn func() (string, error)

	EnsureFolderFn func(name string, parentId string) (string, error)

	ShareFolderFn func(folderId string, emails []string) []string

	UploadFileFn func(name string, parentId string, mimeType string, body io.Reader) (drive.File, error)
}

func (s MediaStorage) ResolveRoot() (string, error) {
	return s.ResolveRootFn()
}

func (s MediaStorage) EnsureFolder(name string, parentId string) (string, error) {
	return s.EnsureFolderFn(name, parentId)
}

func (s MediaStorage) ShareFolder(folderId string, emails []string) []string {
	return s.ShareFolderFn(folderId, emails)
}

func (s MediaStorage) UploadFile(name string, parentId string, mimeType string,
	body io.Reader) (drive.File, error) {
	return s.UploadFileFn(name, parentId, mimeType, body)
}
