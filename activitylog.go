package noslack

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLogNotFound    = errors.New("activity log not found")
	ErrAlreadyLogged  = errors.New("activity already logged for this day")
	ErrNotParticipant = errors.New("user is not a participant of this pact")
)

// ActivityLog is one user's record of having performed an activity in a pact
// on a given offset-local calendar day. At most one exists per
// (pact, user, day), independent of which activity was chosen.
type ActivityLog struct {
	Id         int64
	CreatedAt  time.Time
	PactId     int64
	ActivityId int64
	UserId     UserId
	Notes      string
	Verified   bool
	OccurredAt time.Time
}

type ActivityLogStore interface {
	// Create persists the entry. Returns ErrAlreadyLogged when the
	// (pact, user, day) uniqueness constraint rejects it.
	Create(ctx context.Context, log ActivityLog) (ActivityLog, error)

	ById(ctx context.Context, logId int64) (ActivityLog, error)

	ExistsInRange(ctx context.Context, pactId int64, userId UserId,
		start time.Time, end time.Time) (bool, error)

	ByActivityInRange(ctx context.Context, pactId int64, activityId int64,
		start time.Time, end time.Time) ([]ActivityLog, error)

	ByUserInRange(ctx context.Context, pactId int64, userId UserId,
		start time.Time, end time.Time) ([]ActivityLog, error)

	ByUserInPactsInRange(ctx context.Context, userId UserId, pactIds []int64,
		start time.Time, end time.Time) ([]ActivityLog, error)

	// All-time entries of a user in a pact, most recent first.
	ByPactAndUser(ctx context.Context, pactId int64, userId UserId) ([]ActivityLog, error)
}
