package noslack

import (
	"context"
	"errors"
	"time"
)

var (
	ErrActivityNotFound      = errors.New("activity not found in this pact")
	ErrActivityLimit         = errors.New("activity limit for this pact reached")
	ErrPrimaryActivityExists = errors.New("primary activity already exists for this user in this pact")
)

type Activity struct {
	Id        int64
	CreatedAt time.Time
	PactId    int64
	// User who created the activity.
	UserId       UserId
	Name         string
	Description  string
	NumberOfDays int
	// At most one primary activity per (pact, user).
	IsPrimary bool
}

type ActivityStore interface {
	Create(ctx context.Context, activity Activity) (Activity, error)

	ById(ctx context.Context, activityId int64) (Activity, error)

	// Activities of a user in a pact, most recently created first.
	ByUserAndPact(ctx context.Context, userId UserId, pactId int64) ([]Activity, error)

	// Activities with the given ids that belong to the pact. Ids absent from
	// the pact are silently omitted from the result.
	ByIdsInPact(ctx context.Context, activityIds []int64, pactId int64) ([]Activity, error)

	CountByUserAndPact(ctx context.Context, userId UserId, pactId int64) (int, error)

	PrimaryExists(ctx context.Context, userId UserId, pactId int64) (bool, error)
}
