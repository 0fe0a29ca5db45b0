package rest

import (
	"io/ioutil"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	testifyassert "github.com/stretchr/testify/assert"
)

func TestErrorHandlerRendersFiberErrorMessage(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/teapot", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	assert.NoError(err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Equal(fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(`{"error_message":"short and stout"}`, string(body))
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return testifyassert.AnError
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	assert.NoError(err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Equal(fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(JsonErrorMessageResponse("Internal Server Error"), string(body))
}
