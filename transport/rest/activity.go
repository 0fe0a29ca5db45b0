package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
)

type ActivityController struct {
	Service *noslack.ActivityService
}

func (c *ActivityController) InstallTo(app *fiber.App) {
	app.Post("/activities", c.serveCreateActivity)
	app.Get("/activities", c.serveUserActivities)
}

type activityResponse struct {
	Id           int64  `json:"id"`
	PactId       int64  `json:"pactId"`
	UserId       int64  `json:"userId"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	NumberOfDays int    `json:"numberOfDays"`
	IsPrimary    bool   `json:"isPrimary"`
}

func mapActivity(activity noslack.Activity) activityResponse {
	return activityResponse{
		Id:           activity.Id,
		PactId:       activity.PactId,
		UserId:       int64(activity.UserId),
		Name:         activity.Name,
		Description:  activity.Description,
		NumberOfDays: activity.NumberOfDays,
		IsPrimary:    activity.IsPrimary,
	}
}

func (c *ActivityController) serveCreateActivity(ctx *fiber.Ctx) error {
	var body struct {
		PactId       int64  `json:"pactId"`
		UserId       int64  `json:"userId"`
		Name         string `json:"name"`
		Description  string `json:"description"`
		NumberOfDays int    `json:"numberOfDays"`
		IsPrimary    bool   `json:"isPrimary"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.PactId == 0 || body.UserId == 0 || body.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "pactId, userId and name are required")
	}

	activity, err := c.Service.CreateActivity(ctx.Context(), noslack.Activity{
		PactId:       body.PactId,
		UserId:       noslack.UserId(body.UserId),
		Name:         body.Name,
		Description:  body.Description,
		NumberOfDays: body.NumberOfDays,
		IsPrimary:    body.IsPrimary,
	})
	if err != nil {
		return domainError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(mapActivity(activity))
}

func (c *ActivityController) serveUserActivities(ctx *fiber.Ctx) error {
	userId, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	pactId, err := strconv.ParseInt(ctx.Query("pactId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}

	activities, err := c.Service.UserActivities(ctx.Context(), noslack.UserId(userId), pactId)
	if err != nil {
		return domainError(err)
	}
	mapped := make([]activityResponse, len(activities))
	for i, activity := range activities {
		mapped[i] = mapActivity(activity)
	}
	return ctx.JSON(mapped)
}
