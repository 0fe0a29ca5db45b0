package rest

import (
	"bytes"
	"context"
	"io/ioutil"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/inmem"
	"github.com/stretchr/testify/assert"
)

func newMediaApp(t *testing.T) (*fiber.App, *inmem.Drive) {
	t.Helper()
	ctx := context.Background()
	users := inmem.NewUserStore()
	pacts := inmem.NewPactStore()
	activities := inmem.NewActivityStore()
	fakeDrive := inmem.NewDrive()

	user, err := users.Register(ctx, noslack.User{Email: "makin@gmail.com"})
	assert.NoError(t, err)
	pact, err := pacts.Create(ctx, noslack.Pact{
		Title: "winter arc", Participants: []noslack.UserId{user.Id},
	})
	assert.NoError(t, err)
	_, err = activities.Create(ctx, noslack.Activity{
		PactId: pact.Id, UserId: user.Id, Name: "gym",
	})
	assert.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller := MediaController{
		Service: &noslack.MediaService{
			Users:         users,
			Pacts:         pacts,
			Activities:    activities,
			Media:         inmem.NewMediaStore(),
			Storage:       fakeDrive.Service("root-id", noslack.VisibilityLink),
			Limits:        noslack.DefaultFileLimits(),
			OffsetMinutes: noslack.DefaultOffsetMinutes,
			Now:           func() time.Time { return fixtureNow },
		},
	}
	controller.InstallTo(app)
	return app, fakeDrive
}

func uploadRequest(t *testing.T, fileName string, contentType string,
	content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(t, writer.WriteField("pactId", "1"))
	assert.NoError(t, writer.WriteField("activityId", "1"))
	assert.NoError(t, writer.WriteField("userId", "1"))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestMediaUploadEndpoint(t *testing.T) {
	assert := assert.New(t)
	app, fakeDrive := newMediaApp(t)

	buf, contentType := uploadRequest(t, "proof.jpg", "image/jpeg", "not really a jpeg")
	req := httptest.NewRequest("POST", "/media/upload", buf)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, err := app.Test(req)
	assert.NoError(err)
	defer resp.Body.Close()
	assert.Equal(fiber.StatusCreated, resp.StatusCode)
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Contains(string(body), `"name":"proof.jpg"`)
	assert.Contains(string(body), `"mimeType":"image/jpeg"`)
	assert.Contains(string(body), `"webViewLink"`)
	assert.Equal(1, fakeDrive.UploadCalls)
}

func TestMediaUploadRejectsUnsupportedType(t *testing.T) {
	assert := assert.New(t)
	app, fakeDrive := newMediaApp(t)

	buf, contentType := uploadRequest(t, "notes.txt", "text/plain", "dear diary")
	req := httptest.NewRequest("POST", "/media/upload", buf)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, err := app.Test(req)
	assert.NoError(err)
	defer resp.Body.Close()
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Equal(JsonErrorMessageResponse(noslack.ErrUnsupportedFileType.Error()), string(body))
	assert.Zero(fakeDrive.UploadCalls)
}

func TestMediaUploadRequiresFile(t *testing.T) {
	assert := assert.New(t)
	app, _ := newMediaApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(writer.WriteField("pactId", "1"))
	assert.NoError(writer.WriteField("activityId", "1"))
	assert.NoError(writer.WriteField("userId", "1"))
	assert.NoError(writer.Close())

	req := httptest.NewRequest("POST", "/media/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	resp, err := app.Test(req)
	assert.NoError(err)
	defer resp.Body.Close()
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
}
