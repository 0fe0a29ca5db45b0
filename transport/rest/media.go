package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
)

type MediaController struct {
	Service *noslack.MediaService
}

func (c *MediaController) InstallTo(app *fiber.App) {
	app.Post("/media/upload", c.serveUpload)
}

func (c *MediaController) serveUpload(ctx *fiber.Ctx) error {
	pactId, err := strconv.ParseInt(ctx.FormValue("pactId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}
	activityId, err := strconv.ParseInt(ctx.FormValue("activityId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
	}
	userId, err := strconv.ParseInt(ctx.FormValue("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	file, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable file "+header.Filename)
	}
	defer file.Close()

	media, err := c.Service.UploadMedia(ctx.Context(), noslack.UploadParams{
		UserId:     noslack.UserId(userId),
		PactId:     pactId,
		ActivityId: activityId,
		File: noslack.Upload{
			Name:      header.Filename,
			MimeType:  header.Header.Get(fiber.HeaderContentType),
			SizeBytes: header.Size,
			Body:      file,
		},
	})
	if err != nil {
		return domainError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(mapMedia(media))
}
