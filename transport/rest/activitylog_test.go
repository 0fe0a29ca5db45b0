package rest

import (
	"bytes"
	"context"
	"io/ioutil"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/inmem"
	"github.com/stretchr/testify/assert"
)

// Wednesday noon +05:30; the surrounding week is 2022-03-14 to 2022-03-19.
var fixtureNow = time.Date(2022, 3, 16, 12, 0, 0, 0, time.FixedZone("", 330*60))

type logApp struct {
	app        *fiber.App
	users      *inmem.UserStore
	pacts      *inmem.PactStore
	activities *inmem.ActivityStore
	logs       *inmem.ActivityLogStore
	media      *inmem.MediaStore
	drive      *inmem.Drive
}

func newLogApp() *logApp {
	users := inmem.NewUserStore()
	pacts := inmem.NewPactStore()
	activities := inmem.NewActivityStore()
	logs := inmem.NewActivityLogStore()
	media := inmem.NewMediaStore()
	fakeDrive := inmem.NewDrive()

	logService := &noslack.LogService{
		Users:         users,
		Pacts:         pacts,
		Activities:    activities,
		Logs:          logs,
		Media:         media,
		OffsetMinutes: noslack.DefaultOffsetMinutes,
		Now:           func() time.Time { return fixtureNow },
	}
	mediaService := &noslack.MediaService{
		Users:         users,
		Pacts:         pacts,
		Activities:    activities,
		Media:         media,
		Storage:       fakeDrive.Service("root-id", noslack.VisibilityLink),
		Limits:        noslack.DefaultFileLimits(),
		OffsetMinutes: noslack.DefaultOffsetMinutes,
		Now:           func() time.Time { return fixtureNow },
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller := LogController{Logs: logService, Media: mediaService}
	controller.InstallTo(app)
	return &logApp{
		app:        app,
		users:      users,
		pacts:      pacts,
		activities: activities,
		logs:       logs,
		media:      media,
		drive:      fakeDrive,
	}
}

func (a *logApp) seed(t *testing.T) (noslack.User, noslack.Pact, noslack.Activity) {
	t.Helper()
	ctx := context.Background()
	user, err := a.users.Register(ctx, noslack.User{Email: "makin@gmail.com", Name: "Makin"})
	assert.NoError(t, err)
	pact, err := a.pacts.Create(ctx, noslack.Pact{
		Title:          "winter arc",
		MinDaysPerWeek: 5,
		Participants:   []noslack.UserId{user.Id},
	})
	assert.NoError(t, err)
	activity, err := a.activities.Create(ctx, noslack.Activity{
		PactId: pact.Id, UserId: user.Id, Name: "gym", IsPrimary: true,
	})
	assert.NoError(t, err)
	return user, pact, activity
}

func (a *logApp) postForm(t *testing.T, values url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/logs", bytes.NewBufferString(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := a.app.Test(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return resp.StatusCode, string(body)
}

func (a *logApp) get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := a.app.Test(httptest.NewRequest("GET", url, nil))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return resp.StatusCode, string(body)
}

func TestCreateLogEndpoint(t *testing.T) {
	assert := assert.New(t)
	a := newLogApp()
	a.seed(t)

	occurred := time.Date(2022, 3, 14, 7, 0, 0, 0, time.FixedZone("", 330*60))
	status, body := a.postForm(t, url.Values{
		"pactId":     {"1"},
		"activityId": {"1"},
		"userId":     {"1"},
		"notes":      {"leg day"},
		"occurredAt": {strconv.FormatInt(occurred.Unix(), 10)},
	})
	assert.Equal(fiber.StatusCreated, status)
	assert.Equal(`{"log":{"id":1,"pactId":1,"activityId":1,"userId":1,"notes":"leg day",`+
		`"verified":false,"occurredAt":`+strconv.FormatInt(occurred.Unix(), 10)+`}}`,
		body)

	// Same day again conflicts.
	status, body = a.postForm(t, url.Values{
		"pactId":     {"1"},
		"activityId": {"1"},
		"userId":     {"1"},
		"occurredAt": {strconv.FormatInt(occurred.Add(2*time.Hour).Unix(), 10)},
	})
	assert.Equal(fiber.StatusConflict, status)
	assert.Equal(JsonErrorMessageResponse(noslack.ErrAlreadyLogged.Error()), body)

	status, _ = a.postForm(t, url.Values{
		"pactId": {"x"}, "activityId": {"1"}, "userId": {"1"},
	})
	assert.Equal(fiber.StatusBadRequest, status)
}

func TestCreateLogWithAttachments(t *testing.T) {
	assert := assert.New(t)
	a := newLogApp()
	a.seed(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(writer.WriteField("pactId", "1"))
	assert.NoError(writer.WriteField("activityId", "1"))
	assert.NoError(writer.WriteField("userId", "1"))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="files"; filename="proof.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	assert.NoError(err)
	_, err = part.Write([]byte("not really a jpeg"))
	assert.NoError(err)
	assert.NoError(writer.Close())

	req := httptest.NewRequest("POST", "/logs", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	resp, err := a.app.Test(req)
	assert.NoError(err)
	defer resp.Body.Close()
	assert.Equal(fiber.StatusCreated, resp.StatusCode)
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Contains(string(body), `"name":"proof.jpg"`)
	assert.Contains(string(body), `"mimeType":"image/jpeg"`)
	assert.Equal(1, a.drive.UploadCalls)
	// root is configured, so only pact/week/user folders get created
	assert.Equal(3, a.drive.FolderCount())
}

func TestProgressByActivityEndpoint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	a := newLogApp()
	user, pact, activity := a.seed(t)
	idle, err := a.users.Register(ctx, noslack.User{Email: "leniwy@gmail.com"})
	assert.NoError(err)
	assert.NoError(a.pacts.AddParticipant(ctx, pact.Id, idle.Id))

	monday := time.Date(2022, 3, 14, 7, 0, 0, 0, time.FixedZone("", 330*60))
	for day := 0; day < 2; day++ {
		_, err := a.logs.Create(ctx, noslack.ActivityLog{
			PactId: pact.Id, ActivityId: activity.Id, UserId: user.Id,
			OccurredAt: monday.AddDate(0, 0, day),
		})
		assert.NoError(err)
	}

	status, body := a.get(t, "/logs/progress/activity?pactId=1&activityId=1")
	assert.Equal(fiber.StatusOK, status)
	assert.Equal(`{"targetDays":5,"users":[`+
		`{"userId":1,"targetDays":5,"activityDays":2},`+
		`{"userId":2,"targetDays":5,"activityDays":0}]}`,
		body)

	status, _ = a.get(t, "/logs/progress/activity?pactId=1&activityId=44")
	assert.Equal(fiber.StatusNotFound, status)
}

func TestProgressForUserEndpoint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	a := newLogApp()
	user, pact, activity := a.seed(t)

	_, err := a.logs.Create(ctx, noslack.ActivityLog{
		PactId: pact.Id, ActivityId: activity.Id, UserId: user.Id,
		OccurredAt: fixtureNow,
	})
	assert.NoError(err)

	status, body := a.get(t, "/logs/progress/user?pactId=1&userId=1")
	assert.Equal(fiber.StatusOK, status)
	assert.Equal(`{"userId":1,"targetDays":5,"activityDays":1}`, body)

	ctxUser, err := a.users.Register(ctx, noslack.User{Email: "obcy@gmail.com"})
	assert.NoError(err)
	status, _ = a.get(t, "/logs/progress/user?pactId=1&userId="+
		strconv.FormatInt(int64(ctxUser.Id), 10))
	assert.Equal(fiber.StatusForbidden, status)
}

func TestProgressAcrossPactsEndpoint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	a := newLogApp()
	user, pact, activity := a.seed(t)

	_, err := a.logs.Create(ctx, noslack.ActivityLog{
		PactId: pact.Id, ActivityId: activity.Id, UserId: user.Id,
		OccurredAt: fixtureNow,
	})
	assert.NoError(err)

	status, body := a.get(t, "/logs/progress/by-user?userId=1")
	assert.Equal(fiber.StatusOK, status)
	assert.Equal(`{"userId":1,"results":[{"pactId":1,"targetDays":5,"activityDays":1}]}`, body)

	// A user in no pacts gets an empty result list, not an error.
	nobody, err := a.users.Register(ctx, noslack.User{Email: "nikt@gmail.com"})
	assert.NoError(err)
	status, body = a.get(t, "/logs/progress/by-user?userId="+
		strconv.FormatInt(int64(nobody.Id), 10))
	assert.Equal(fiber.StatusOK, status)
	assert.Equal(`{"userId":2,"results":[]}`, body)
}

func TestUserLogsByDayEndpoint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	a := newLogApp()
	user, pact, activity := a.seed(t)

	monday := time.Date(2022, 3, 14, 7, 0, 0, 0, time.FixedZone("", 330*60))
	for day := 0; day < 2; day++ {
		_, err := a.logs.Create(ctx, noslack.ActivityLog{
			PactId: pact.Id, ActivityId: activity.Id, UserId: user.Id,
			OccurredAt: monday.AddDate(0, 0, day),
		})
		assert.NoError(err)
	}

	status, body := a.get(t, "/logs/user-logs?pactId=1&userId=1")
	assert.Equal(fiber.StatusOK, status)
	assert.Contains(body, `"days":[{"date":"2022-03-15"`)
	assert.Contains(body, `{"date":"2022-03-14"`)
}

func TestLogDetailEndpoint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	a := newLogApp()
	user, pact, activity := a.seed(t)

	log, err := a.logs.Create(ctx, noslack.ActivityLog{
		PactId: pact.Id, ActivityId: activity.Id, UserId: user.Id,
		Notes: "leg day", OccurredAt: fixtureNow,
	})
	assert.NoError(err)
	a.media.Now = func() time.Time { return fixtureNow.Add(time.Hour) }
	_, err = a.media.Create(ctx, noslack.Media{
		PactId: pact.Id, ActivityId: activity.Id, UserId: user.Id,
		Name: "proof.jpg", MimeType: "image/jpeg", SizeBytes: 17,
	})
	assert.NoError(err)

	status, body := a.get(t, "/logs/"+strconv.FormatInt(log.Id, 10))
	assert.Equal(fiber.StatusOK, status)
	assert.Equal(`{"id":1,"date":"2022-03-16","occurredAt":`+
		strconv.FormatInt(fixtureNow.Unix(), 10)+`,"notes":"leg day",`+
		`"images":[{"id":1,"name":"proof.jpg","mimeType":"image/jpeg","sizeBytes":17}]}`,
		body)

	status, _ = a.get(t, "/logs/404")
	assert.Equal(fiber.StatusNotFound, status)
}
