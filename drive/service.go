package drive

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

// Name of the top-level folder provisioned when no root id is configured.
const topLevelFolderName = "no-slack-pact"

// ensureFolder results are cached this long; the mapping only changes when
// someone reorganizes the drive by hand.
const folderCacheTTL = 24 * time.Hour

const (
	VisibilityLink    = "link"
	VisibilityPrivate = "private"
)

// Error is a failed storage-provider call. The wrapped detail never contains
// credentials.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("drive: %s: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Service provisions the folder hierarchy and uploads files on the remote
// drive. Provider calls are injectable funcs; see files.go for the REST
// implementations.
type Service struct {
	FindFolder      FolderFinder
	CreateFolder    FolderCreator
	CreateFile      FileCreator
	GetFile         FileGetter
	GrantPermission PermissionGranter

	// Configured root folder id; when empty the fixed-name top-level folder
	// is find-or-created once and reused until restart.
	RootFolderId string
	// Default sharing visibility of uploads, VisibilityLink or
	// VisibilityPrivate.
	Visibility string
	// Optional folder-id cache. Misses fall through to the provider.
	Cache *buntdb.DB

	rootMutex      sync.Mutex
	resolvedRootId string
}

func (s *Service) visibility() string {
	if s.Visibility == "" {
		return VisibilityLink
	}
	return s.Visibility
}

// ResolveRoot returns the configured root folder id or resolves the fixed
// top-level folder once per process. A failed resolution is retried on the
// next call; a successful one sticks until restart.
func (s *Service) ResolveRoot() (string, error) {
	if s.RootFolderId != "" {
		return s.RootFolderId, nil
	}

	s.rootMutex.Lock()
	defer s.rootMutex.Unlock()
	if s.resolvedRootId != "" {
		return s.resolvedRootId, nil
	}
	rootId, err := s.EnsureFolder(topLevelFolderName, "root")
	if err != nil {
		return "", err
	}
	s.resolvedRootId = rootId
	return rootId, nil
}

// EnsureFolder is an idempotent find-or-create of a folder named name under
// parentId. Repeated calls with identical arguments return the same id with
// no side effect beyond the first.
func (s *Service) EnsureFolder(name string, parentId string) (string, error) {
	cacheKey := "folder:" + parentId + ":" + name
	if folderId := s.cachedFolderId(cacheKey); folderId != "" {
		return folderId, nil
	}

	folderId, err := s.FindFolder(name, parentId)
	if err != nil {
		return "", &Error{Op: "find folder " + name, Err: err}
	}
	if folderId == "" {
		folderId, err = s.CreateFolder(name, parentId)
		if err != nil {
			return "", &Error{Op: "create folder " + name, Err: err}
		}
	}
	s.cacheFolderId(cacheKey, folderId)
	return folderId, nil
}

func (s *Service) cachedFolderId(key string) string {
	if s.Cache == nil {
		return ""
	}
	var folderId string
	err := s.Cache.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(key)
		if err != nil {
			return err
		}
		folderId = value
		return nil
	})
	if err != nil && err != buntdb.ErrNotFound {
		logrus.WithError(err).WithField("key", key).Warnln("Folder cache read failed.")
	}
	return folderId
}

func (s *Service) cacheFolderId(key string, folderId string) {
	if s.Cache == nil {
		return
	}
	err := s.Cache.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, folderId, &buntdb.SetOptions{Expires: true, TTL: folderCacheTTL})
		return err
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warnln("Folder cache write failed.")
	}
}

// ShareFolder grants reader access on folderId to every email, each grant
// attempted independently. When the default visibility is link-shareable an
// anyone-with-link reader grant is added. Returns the emails whose grant
// failed; never fails the caller.
func (s *Service) ShareFolder(folderId string, emails []string) (failed []string) {
	for _, email := range emails {
		err := s.GrantPermission(folderId, Permission{
			Type:         "user",
			Role:         "reader",
			EmailAddress: email,
		})
		if err != nil {
			logrus.WithError(err).WithField("email", email).
				Debugln("Reader grant failed.")
			failed = append(failed, email)
		}
	}
	if s.visibility() == VisibilityLink {
		err := s.GrantPermission(folderId, Permission{Type: "anyone", Role: "reader"})
		if err != nil {
			logrus.WithError(err).WithField("folder_id", folderId).
				Debugln("Anyone-with-link grant failed.")
		}
	}
	return failed
}

// UploadFile streams the content into parentId and returns the stored file
// with its view/content links. Provider failures wrap into *Error and are
// not retried.
func (s *Service) UploadFile(name string, parentId string, mimeType string,
	body io.Reader) (File, error) {
	fileId, err := s.CreateFile(name, parentId, mimeType, body)
	if err != nil {
		return File{}, &Error{Op: "upload " + name, Err: err}
	}

	if s.visibility() == VisibilityLink {
		err = s.GrantPermission(fileId, Permission{Type: "anyone", Role: "reader"})
		if err != nil {
			logrus.WithError(err).WithField("file_id", fileId).
				Debugln("Anyone-with-link grant failed.")
		}
	}

	file, err := s.GetFile(fileId)
	if err != nil {
		return File{}, &Error{Op: "get file " + fileId, Err: err}
	}
	file.Visibility = s.visibility()
	return file, nil
}
