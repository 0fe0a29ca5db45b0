package rest

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
)

type UserController struct {
	Store      noslack.UserStore
	Membership *noslack.MembershipService
}

func (c *UserController) InstallTo(app *fiber.App) {
	app.Post("/users", c.serveCreateUser)
	app.Post("/users/join-pact", c.serveJoinPact)
}

type userResponse struct {
	Id          int64        `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	PactDetails *pactDetails `json:"pactDetails,omitempty"`
}

type pactDetails struct {
	PactId              int64 `json:"pactId"`
	PrimaryActivityId   int64 `json:"primaryActivityId,omitempty"`
	SecondaryActivityId int64 `json:"secondaryActivityId,omitempty"`
}

func mapUser(user noslack.User) userResponse {
	response := userResponse{
		Id:    int64(user.Id),
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
	}
	if user.PactDetails != nil {
		response.PactDetails = &pactDetails{
			PactId:              user.PactDetails.PactId,
			PrimaryActivityId:   user.PactDetails.PrimaryActivityId,
			SecondaryActivityId: user.PactDetails.SecondaryActivityId,
		}
	}
	return response
}

func (c *UserController) serveCreateUser(ctx *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Email == "" || body.Name == "" || body.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, name and phone are required")
	}

	user, err := c.Store.Register(ctx.Context(), noslack.User{
		Email: body.Email,
		Name:  body.Name,
		Phone: body.Phone,
	})
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(mapUser(user))
}

func (c *UserController) serveJoinPact(ctx *fiber.Ctx) error {
	var body struct {
		UserId      int64   `json:"userId"`
		PactId      int64   `json:"pactId"`
		ActivityIds []int64 `json:"activityIds"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.UserId == 0 || body.PactId == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "userId and pactId are required")
	}

	user, pact, err := c.Membership.JoinPact(ctx.Context(), noslack.JoinPactParams{
		UserId:      noslack.UserId(body.UserId),
		PactId:      body.PactId,
		ActivityIds: body.ActivityIds,
	})
	if err != nil {
		return domainError(err)
	}

	type joinResponse struct {
		User userResponse `json:"user"`
		Pact pactResponse `json:"pact"`
	}
	return ctx.JSON(joinResponse{User: mapUser(user), Pact: mapPact(pact)})
}
