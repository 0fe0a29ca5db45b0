package inmem

import (
	"fmt"
	"io"
	"io/ioutil"
	"sync"

	"github.com/google/uuid"
	"github.com/noslackpact/noslack/drive"
)

type driveFolder struct {
	id       string
	name     string
	parentId string
}

type driveFile struct {
	file    drive.File
	content []byte
}

// Drive is a fake storage provider backed by maps. Plug its methods into a
// drive.Service to exercise provisioning without the network.
type Drive struct {
	mutex       sync.Mutex
	folders     []driveFolder
	files       map[string]driveFile
	permissions map[string][]drive.Permission

	// Identities whose grants fail, and an optional per-call failure.
	FailGrants map[string]bool
	UploadErr  error

	ListCalls   int
	CreateCalls int
	UploadCalls int
}

func NewDrive() *Drive {
	return &Drive{
		files:       make(map[string]driveFile),
		permissions: make(map[string][]drive.Permission),
	}
}

func (d *Drive) FindFolder(name string, parentId string) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.ListCalls++
	for _, folder := range d.folders {
		if folder.name == name && folder.parentId == parentId {
			return folder.id, nil
		}
	}
	return "", nil
}

func (d *Drive) CreateFolder(name string, parentId string) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.CreateCalls++
	folder := driveFolder{id: uuid.New().String(), name: name, parentId: parentId}
	d.folders = append(d.folders, folder)
	return folder.id, nil
}

func (d *Drive) CreateFile(name string, parentId string, mimeType string,
	body io.Reader) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.UploadCalls++
	if d.UploadErr != nil {
		return "", d.UploadErr
	}
	content, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	d.files[id] = driveFile{
		file: drive.File{
			Id:             id,
			Name:           name,
			WebViewLink:    "https://drive.test/view/" + id,
			WebContentLink: "https://drive.test/content/" + id,
		},
		content: content,
	}
	return id, nil
}

func (d *Drive) GetFile(fileId string) (drive.File, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	stored, ok := d.files[fileId]
	if !ok {
		return drive.File{}, fmt.Errorf("file %s not found", fileId)
	}
	return stored.file, nil
}

func (d *Drive) GrantPermission(fileId string, permission drive.Permission) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.FailGrants[permission.EmailAddress] {
		return fmt.Errorf("grant to %s rejected", permission.EmailAddress)
	}
	d.permissions[fileId] = append(d.permissions[fileId], permission)
	return nil
}

// Service wires the fake into a drive.Service without a folder cache.
func (d *Drive) Service(rootFolderId string, visibility string) *drive.Service {
	return &drive.Service{
		FindFolder:      d.FindFolder,
		CreateFolder:    d.CreateFolder,
		CreateFile:      d.CreateFile,
		GetFile:         d.GetFile,
		GrantPermission: d.GrantPermission,
		RootFolderId:    rootFolderId,
		Visibility:      visibility,
	}
}

func (d *Drive) FolderCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.folders)
}

func (d *Drive) Permissions(fileId string) []drive.Permission {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]drive.Permission(nil), d.permissions[fileId]...)
}

func (d *Drive) FileContent(fileId string) []byte {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.files[fileId].content
}
