package rest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/drive"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func requestLog(ctx *fiber.Ctx) *logrus.Entry {
	return logrus.
		WithField("remote_addr", ctx.Context().RemoteAddr()).
		WithField("path", ctx.Path()).
		WithField("z_referer", string(ctx.Request().Header.Peek("Referer"))).
		WithField("z_user_agent", string(ctx.Request().Header.Peek("User-Agent"))).
		WithField("z_x_forwared_for", string(ctx.Request().Header.Peek("X-Forwarded-For")))
}

func LogHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestLog(ctx).Infoln("Handling request.")
		return ctx.Next()
	}
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return ctx.
			Status(fe.Code).
			JSON(&ErrorResponse{ErrorMessage: fmt.Sprintf("%v", fe.Message)})
	} else {
		requestLog(ctx).WithError(err).Errorln("Internal server error.")
		// keep internal server errors private. reply with generic error message.
		return ctx.
			Status(fiber.ErrInternalServerError.Code).
			JSON(&ErrorResponse{ErrorMessage: fmt.Sprintf("%v", fiber.ErrInternalServerError.Message)})
	}
}

func NotFoundHandler(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound)
}

func JsonErrorMessageResponse(message string) string {
	bytes, err := json.Marshal(ErrorResponse{ErrorMessage: message})
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// domainError maps domain sentinels onto client-facing statuses. Storage
// provider failures become a bad gateway with the provider detail; anything
// unmapped keeps its type and falls through to ErrorHandler.
func domainError(err error) error {
	switch {
	case errors.Is(err, noslack.ErrPactNotFound),
		errors.Is(err, noslack.ErrUserNotFound),
		errors.Is(err, noslack.ErrActivityNotFound),
		errors.Is(err, noslack.ErrLogNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, noslack.ErrAlreadyLogged),
		errors.Is(err, noslack.ErrAlreadyParticipant):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, noslack.ErrNotParticipant):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, noslack.ErrUnsupportedFileType),
		errors.Is(err, noslack.ErrFileTooLarge),
		errors.Is(err, noslack.ErrActivityLimit),
		errors.Is(err, noslack.ErrPrimaryActivityExists):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var driveErr *drive.Error
	if errors.As(err, &driveErr) {
		return fiber.NewError(fiber.StatusBadGateway, driveErr.Error())
	}
	return err
}
