package noslack

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/noslackpact/noslack/drive"
	"github.com/sirupsen/logrus"
)

// MediaStorage is the slice of the storage provider the upload flow needs.
// Implemented by drive.Service.
type MediaStorage interface {
	// ResolveRoot returns the configured root folder id, or find-or-creates
	// the fixed top-level folder and caches it for the process lifetime.
	ResolveRoot() (string, error)

	// EnsureFolder is an idempotent find-or-create under parentId.
	EnsureFolder(name string, parentId string) (string, error)

	// ShareFolder grants reader access to each email, best effort. Returns
	// the emails that failed.
	ShareFolder(folderId string, emails []string) (failed []string)

	UploadFile(name string, parentId string, mimeType string, body io.Reader) (drive.File, error)
}

type Upload struct {
	Name      string
	MimeType  string
	SizeBytes int64
	Body      io.Reader
}

type UploadParams struct {
	UserId     UserId
	PactId     int64
	ActivityId int64
	File       Upload
}

// MediaService admits evidence files, provisions the pact/week/user folder
// chain on the storage provider and persists the media record.
type MediaService struct {
	Users      UserStore
	Pacts      PactStore
	Activities ActivityStore
	Media      MediaStore
	Storage    MediaStorage

	Limits        FileLimits
	OffsetMinutes int

	Now func() time.Time

	// One lock per (pact, week label) so concurrent requests cannot race the
	// find-or-create chain for the same new folder pair, while uploads for
	// different pacts or weeks never serialize.
	provisionLocks sync.Map
}

func (s *MediaService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MediaService) UploadMedia(ctx context.Context, params UploadParams) (Media, error) {
	user, err := s.Users.ById(ctx, params.UserId)
	if err != nil {
		return Media{}, err
	}
	pact, err := s.Pacts.ById(ctx, params.PactId)
	if err != nil {
		return Media{}, err
	}
	activity, err := s.Activities.ById(ctx, params.ActivityId)
	if err != nil {
		return Media{}, err
	}
	if activity.PactId != params.PactId {
		return Media{}, ErrActivityNotFound
	}
	if !pact.HasParticipant(user.Id) {
		return Media{}, ErrNotParticipant
	}
	if err := ValidateFile(params.File.MimeType, params.File.SizeBytes, s.Limits); err != nil {
		return Media{}, err
	}

	week := WeekWindow(s.now(), s.OffsetMinutes)
	userFolderId, rootId, err := s.provisionFolders(params.PactId, params.UserId, week.Label)
	if err != nil {
		return Media{}, err
	}

	// Reader access on the root only; children inherit. Never fails the
	// upload, but failed identities are surfaced.
	participants, err := s.Users.ByIds(ctx, pact.Participants)
	if err != nil {
		return Media{}, fmt.Errorf("load participants: %w", err)
	}
	emails := make([]string, 0, len(participants))
	for _, participant := range participants {
		if participant.Email != "" {
			emails = append(emails, participant.Email)
		}
	}
	if failed := s.Storage.ShareFolder(rootId, emails); len(failed) > 0 {
		logrus.WithField("pact_id", pact.Id).
			WithField("emails", failed).
			Warnln("Could not grant storage access to some participants.")
	}

	uploaded, err := s.Storage.UploadFile(params.File.Name, userFolderId,
		params.File.MimeType, params.File.Body)
	if err != nil {
		return Media{}, err
	}

	return s.Media.Create(ctx, Media{
		PactId:         params.PactId,
		ActivityId:     params.ActivityId,
		UserId:         params.UserId,
		Provider:       "gdrive",
		ProviderFileId: uploaded.Id,
		Name:           params.File.Name,
		MimeType:       params.File.MimeType,
		SizeBytes:      params.File.SizeBytes,
		Visibility:     uploaded.Visibility,
		WebViewLink:    uploaded.WebViewLink,
		WebContentLink: uploaded.WebContentLink,
	})
}

// provisionFolders resolves root -> pact_<id> -> <weekLabel> -> user_<id>,
// holding the (pact, week) lock across the find-or-create chain.
func (s *MediaService) provisionFolders(pactId int64, userId UserId,
	weekLabel string) (userFolderId string, rootId string, err error) {
	lockKey := fmt.Sprintf("%d/%s", pactId, weekLabel)
	lock, _ := s.provisionLocks.LoadOrStore(lockKey, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()
	defer mutex.Unlock()

	rootId, err = s.Storage.ResolveRoot()
	if err != nil {
		return "", "", err
	}
	pactFolderId, err := s.Storage.EnsureFolder(fmt.Sprintf("pact_%d", pactId), rootId)
	if err != nil {
		return "", "", err
	}
	weekFolderId, err := s.Storage.EnsureFolder(weekLabel, pactFolderId)
	if err != nil {
		return "", "", err
	}
	userFolderId, err = s.Storage.EnsureFolder(fmt.Sprintf("user_%d", userId), weekFolderId)
	if err != nil {
		return "", "", err
	}
	return userFolderId, rootId, nil
}
