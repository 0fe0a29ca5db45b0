package drive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	apiUrl    = "https://www.googleapis.com/drive/v3"
	uploadUrl = "https://www.googleapis.com/upload/drive/v3/files?uploadType=multipart&fields=id&supportsAllDrives=true"

	FolderMimeType = "application/vnd.google-apps.folder"
)

type File struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	WebViewLink    string `json:"webViewLink"`
	WebContentLink string `json:"webContentLink"`
	// Filled by the service, not the provider.
	Visibility string `json:"-"`
}

type Permission struct {
	Type         string `json:"type"`
	Role         string `json:"role"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Provider operations as injectable funcs, so services and tests can swap
// implementations without a client interface.
type (
	// Returns the id of a non-trashed folder with the given name under
	// parentId, or "" when none exists.
	FolderFinder = func(name string, parentId string) (string, error)

	FolderCreator = func(name string, parentId string) (string, error)

	FileCreator = func(name string, parentId string, mimeType string, body io.Reader) (string, error)

	FileGetter = func(fileId string) (File, error)

	PermissionGranter = func(fileId string, permission Permission) error
)

func RestFolderFinder(token TokenSource) FolderFinder {
	return func(name string, parentId string) (string, error) {
		query := fmt.Sprintf("'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
			parentId, strings.ReplaceAll(name, "'", `\'`), FolderMimeType)
		uri := apiUrl + "/files?fields=files(id,name)&includeItemsFromAllDrives=true&supportsAllDrives=true&q=" +
			url.QueryEscape(query)

		body, err := call(token, fiber.MethodGet, uri, "", nil)
		if err != nil {
			return "", err
		}
		var response struct {
			Files []File `json:"files"`
		}
		if err := json.Unmarshal(body, &response); err != nil {
			return "", fmt.Errorf("response unmarshal: %w", err)
		}
		if len(response.Files) == 0 {
			return "", nil
		}
		return response.Files[0].Id, nil
	}
}

func RestFolderCreator(token TokenSource) FolderCreator {
	return func(name string, parentId string) (string, error) {
		metadata, err := json.Marshal(map[string]interface{}{
			"name":     name,
			"mimeType": FolderMimeType,
			"parents":  []string{parentId},
		})
		if err != nil {
			return "", fmt.Errorf("metadata marshal: %w", err)
		}
		body, err := call(token, fiber.MethodPost,
			apiUrl+"/files?fields=id&supportsAllDrives=true", fiber.MIMEApplicationJSON, metadata)
		if err != nil {
			return "", err
		}
		var created File
		if err := json.Unmarshal(body, &created); err != nil {
			return "", fmt.Errorf("response unmarshal: %w", err)
		}
		return created.Id, nil
	}
}

func RestFileCreator(token TokenSource) FileCreator {
	return func(name string, parentId string, mimeType string, content io.Reader) (string, error) {
		body, contentType, err := multipartUpload(name, parentId, mimeType, content)
		if err != nil {
			return "", err
		}
		responseBody, err := call(token, fiber.MethodPost, uploadUrl, contentType, body)
		if err != nil {
			return "", err
		}
		var created File
		if err := json.Unmarshal(responseBody, &created); err != nil {
			return "", fmt.Errorf("response unmarshal: %w", err)
		}
		return created.Id, nil
	}
}

func RestFileGetter(token TokenSource) FileGetter {
	return func(fileId string) (File, error) {
		body, err := call(token, fiber.MethodGet,
			apiUrl+"/files/"+url.PathEscape(fileId)+
				"?fields=id,webViewLink,webContentLink&supportsAllDrives=true", "", nil)
		if err != nil {
			return File{}, err
		}
		var file File
		if err := json.Unmarshal(body, &file); err != nil {
			return File{}, fmt.Errorf("response unmarshal: %w", err)
		}
		return file, nil
	}
}

func RestPermissionGranter(token TokenSource) PermissionGranter {
	return func(fileId string, permission Permission) error {
		payload, err := json.Marshal(permission)
		if err != nil {
			return fmt.Errorf("permission marshal: %w", err)
		}
		_, err = call(token, fiber.MethodPost,
			apiUrl+"/files/"+url.PathEscape(fileId)+
				"/permissions?sendNotificationEmail=false&supportsAllDrives=true",
			fiber.MIMEApplicationJSON, payload)
		return err
	}
}

// multipartUpload builds a multipart/related body of file metadata plus
// content, the shape the provider's upload endpoint expects.
func multipartUpload(name string, parentId string, mimeType string,
	content io.Reader) (body []byte, contentType string, err error) {
	metadata, err := json.Marshal(map[string]interface{}{
		"name":     name,
		"mimeType": mimeType,
		"parents":  []string{parentId},
	})
	if err != nil {
		return nil, "", fmt.Errorf("metadata marshal: %w", err)
	}

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	metaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fiber.MIMEApplicationJSONCharsetUTF8},
	})
	if err != nil {
		return nil, "", fmt.Errorf("metadata part: %w", err)
	}
	if _, err = metaPart.Write(metadata); err != nil {
		return nil, "", fmt.Errorf("metadata write: %w", err)
	}

	filePart, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {mimeType}})
	if err != nil {
		return nil, "", fmt.Errorf("content part: %w", err)
	}
	if _, err = io.Copy(filePart, content); err != nil {
		return nil, "", fmt.Errorf("content copy: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, "", fmt.Errorf("writer close: %w", err)
	}
	return buffer.Bytes(), "multipart/related; boundary=" + writer.Boundary(), nil
}

func call(token TokenSource, method string, uri string,
	contentType string, body []byte) ([]byte, error) {
	bearer, err := token()
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if body != nil {
		req.SetBody(body)
	}

	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("agent parse: %w", err)
	}
	statusCode, responseBody, errArr := agent.Bytes()
	if len(errArr) != 0 {
		return nil, fmt.Errorf("agent bytes: %v", errArr)
	}
	if statusCode == fiber.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if statusCode < 200 || statusCode > 299 {
		return nil, fmt.Errorf("invalid status code '%d': %s", statusCode, string(responseBody))
	}
	return responseBody, nil
}
