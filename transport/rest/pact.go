package rest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
)

type PactController struct {
	Store noslack.PactStore
}

func (c *PactController) InstallTo(app *fiber.App) {
	app.Post("/pacts", c.serveCreatePact)
	app.Get("/pacts/active", c.serveActivePacts)
	app.Get("/pacts/:pact_id", c.servePact)
}

type pactResponse struct {
	Id                   int64   `json:"id"`
	Title                string  `json:"title"`
	Description          string  `json:"description,omitempty"`
	Status               string  `json:"status"`
	StartDate            int64   `json:"startDate,omitempty"`
	EndDate              int64   `json:"endDate,omitempty"`
	MinDaysPerWeek       int     `json:"minDaysPerWeek"`
	MaxActivitiesPerUser int     `json:"maxActivitiesPerUser"`
	SkipFine             int     `json:"skipFine"`
	LeaveFine            int     `json:"leaveFine"`
	Participants         []int64 `json:"participants"`
}

func mapPact(pact noslack.Pact) pactResponse {
	participants := make([]int64, len(pact.Participants))
	for i, id := range pact.Participants {
		participants[i] = int64(id)
	}
	response := pactResponse{
		Id:                   pact.Id,
		Title:                pact.Title,
		Description:          pact.Description,
		Status:               pact.Status,
		MinDaysPerWeek:       pact.MinDaysPerWeek,
		MaxActivitiesPerUser: pact.MaxActivitiesPerUser,
		SkipFine:             pact.SkipFine,
		LeaveFine:            pact.LeaveFine,
		Participants:         participants,
	}
	if !pact.StartDate.IsZero() {
		response.StartDate = pact.StartDate.Unix()
	}
	if !pact.EndDate.IsZero() {
		response.EndDate = pact.EndDate.Unix()
	}
	return response
}

func (c *PactController) serveCreatePact(ctx *fiber.Ctx) error {
	var body struct {
		Title                string `json:"title"`
		Description          string `json:"description"`
		StartDate            int64  `json:"startDate"`
		EndDate              int64  `json:"endDate"`
		MinDaysPerWeek       int    `json:"minDaysPerWeek"`
		MaxActivitiesPerUser int    `json:"maxActivitiesPerUser"`
		SkipFine             int    `json:"skipFine"`
		LeaveFine            int    `json:"leaveFine"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if body.MinDaysPerWeek < 1 || body.MinDaysPerWeek > 7 {
		return fiber.NewError(fiber.StatusBadRequest, "minDaysPerWeek must be between 1 and 7")
	}
	if body.MaxActivitiesPerUser < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "maxActivitiesPerUser must be at least 1")
	}
	if body.SkipFine < 0 || body.LeaveFine < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "fines must not be negative")
	}

	pact := noslack.Pact{
		Title:                body.Title,
		Description:          body.Description,
		Status:               noslack.PactStatusActive,
		MinDaysPerWeek:       body.MinDaysPerWeek,
		MaxActivitiesPerUser: body.MaxActivitiesPerUser,
		SkipFine:             body.SkipFine,
		LeaveFine:            body.LeaveFine,
	}
	if body.StartDate != 0 {
		pact.StartDate = time.Unix(body.StartDate, 0)
	}
	if body.EndDate != 0 {
		pact.EndDate = time.Unix(body.EndDate, 0)
	}

	created, err := c.Store.Create(ctx.Context(), pact)
	if err != nil {
		return fmt.Errorf("create pact: %w", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(mapPact(created))
}

func (c *PactController) serveActivePacts(ctx *fiber.Ctx) error {
	pacts, err := c.Store.AllActive(ctx.Context())
	if err != nil {
		return fmt.Errorf("get active pacts: %w", err)
	}
	mapped := make([]pactResponse, len(pacts))
	for i, pact := range pacts {
		mapped[i] = mapPact(pact)
	}
	return ctx.JSON(mapped)
}

func (c *PactController) servePact(ctx *fiber.Ctx) error {
	pactId, err := strconv.ParseInt(ctx.Params("pact_id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}
	pact, err := c.Store.ById(ctx.Context(), pactId)
	if err != nil {
		return domainError(err)
	}
	return ctx.JSON(mapPact(pact))
}
