package rest

import (
	"context"
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/mock"
	"github.com/stretchr/testify/assert"
)

func TestCreatePact(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	store := mock.PactStore{
		CreateFn: func(ctx context.Context, pact noslack.Pact) (noslack.Pact, error) {
			pact.Id = 1
			pact.CreatedAt = time.Date(2022, 3, 14, 8, 0, 0, 0, time.UTC)
			return pact, nil
		},
	}
	controller := PactController{Store: store}
	controller.InstallTo(app)

	cases := []struct {
		name   string
		body   string
		status int
		resp   string
	}{
		{"created",
			`{"title":"winter arc","minDaysPerWeek":5,"maxActivitiesPerUser":2}`,
			fiber.StatusCreated,
			`{"id":1,"title":"winter arc","status":"active","minDaysPerWeek":5,` +
				`"maxActivitiesPerUser":2,"skipFine":0,"leaveFine":0,"participants":[]}`},
		{"missing title",
			`{"minDaysPerWeek":5,"maxActivitiesPerUser":2}`,
			fiber.StatusBadRequest,
			JsonErrorMessageResponse("title is required")},
		{"days out of range",
			`{"title":"x","minDaysPerWeek":8,"maxActivitiesPerUser":2}`,
			fiber.StatusBadRequest,
			JsonErrorMessageResponse("minDaysPerWeek must be between 1 and 7")},
		{"no activities allowed",
			`{"title":"x","minDaysPerWeek":5}`,
			fiber.StatusBadRequest,
			JsonErrorMessageResponse("maxActivitiesPerUser must be at least 1")},
		{"negative fine",
			`{"title":"x","minDaysPerWeek":5,"maxActivitiesPerUser":2,"skipFine":-1}`,
			fiber.StatusBadRequest,
			JsonErrorMessageResponse("fines must not be negative")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/pacts", strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req)
			assert.NoError(err)
			defer resp.Body.Close()
			assert.Equal(tc.status, resp.StatusCode)
			body, err := ioutil.ReadAll(resp.Body)
			assert.NoError(err)
			assert.Equal(tc.resp, string(body))
		})
	}
}

func TestGetPact(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	store := mock.PactStore{
		ByIdFn: func(ctx context.Context, pactId int64) (noslack.Pact, error) {
			if pactId != 7 {
				return noslack.Pact{}, noslack.ErrPactNotFound
			}
			return noslack.Pact{
				Id:                   7,
				Title:                "winter arc",
				Status:               noslack.PactStatusActive,
				MinDaysPerWeek:       5,
				MaxActivitiesPerUser: 2,
				Participants:         []noslack.UserId{3, 4},
			}, nil
		},
	}
	controller := PactController{Store: store}
	controller.InstallTo(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/pacts/7", nil))
	assert.NoError(err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Equal(`{"id":7,"title":"winter arc","status":"active","minDaysPerWeek":5,`+
		`"maxActivitiesPerUser":2,"skipFine":0,"leaveFine":0,"participants":[3,4]}`,
		string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/pacts/404", nil))
	assert.NoError(err)
	defer resp.Body.Close()
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestActivePacts(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	store := mock.PactStore{
		AllActiveFn: func(ctx context.Context) ([]noslack.Pact, error) {
			return []noslack.Pact{}, nil
		},
	}
	controller := PactController{Store: store}
	controller.InstallTo(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/pacts/active", nil))
	assert.NoError(err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Equal("[]", string(body))
}
