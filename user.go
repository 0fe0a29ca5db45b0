package noslack

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type UserId int64

type User struct {
	Id        UserId
	CreatedAt time.Time
	// Contact identity, unique. Also the identity storage permissions are
	// granted to.
	Email       string
	Name        string
	Phone       string
	PactDetails *PactDetails
}

// PactDetails records a user's membership in a pact, set once on join.
type PactDetails struct {
	PactId              int64
	PrimaryActivityId   int64
	SecondaryActivityId int64
}

type UserStore interface {
	// Register creates the user, or returns the already registered user when
	// the email is taken.
	Register(ctx context.Context, user User) (User, error)

	ById(ctx context.Context, userId UserId) (User, error)

	ByIds(ctx context.Context, userIds []UserId) ([]User, error)

	SetPactDetails(ctx context.Context, userId UserId, details PactDetails) error
}
