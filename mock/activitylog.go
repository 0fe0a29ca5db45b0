package mock

import (
	"context"
	"time"

	"github.com/noslackpact/noslack"
)

type ActivityLogStore struct {
	CreateFn func(ctx context.Context, log noslack.ActivityLog) (noslack.ActivityLog, error)

	ByIdFn func(ctx context.Context, logId int64) (noslack.ActivityLog, error)

	ExistsInRangeFn func(ctx context.Context, pactId int64, userId noslack.UserId,
		start time.Time, end time.Time) (bool, error)

	ByActivityInRangeFn func(ctx context.Context, pactId int64, activityId int64,
		start time.Time, end time.Time) ([]noslack.ActivityLog, error)

	ByUserInRangeFn func(ctx context.Context, pactId int64, userId noslack.UserId,
		start time.Time, end time.Time) ([]noslack.ActivityLog, error)

	ByUserInPactsInRangeFn func(ctx context.Context, userId noslack.UserId, pactIds []int64,
		start time.Time, end time.Time) ([]noslack.ActivityLog, error)

	ByPactAndUserFn func(ctx context.Context, pactId int64, userId noslack.UserId) ([]noslack.ActivityLog, error)
}

func (s ActivityLogStore) Create(ctx context.Context, log noslack.ActivityLog) (noslack.ActivityLog, error) {
	return s.CreateFn(ctx, log)
}

func (s ActivityLogStore) ById(ctx context.Context, logId int64) (noslack.ActivityLog, error) {
	return s.ByIdFn(ctx, logId)
}

func (s ActivityLogStore) ExistsInRange(ctx context.Context, pactId int64, userId noslack.UserId,
	start time.Time, end time.Time) (bool, error) {
	return s.ExistsInRangeFn(ctx, pactId, userId, start, end)
}

func (s ActivityLogStore) ByActivityInRange(ctx context.Context, pactId int64, activityId int64,
	start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	return s.ByActivityInRangeFn(ctx, pactId, activityId, start, end)
}

func (s ActivityLogStore) ByUserInRange(ctx context.Context, pactId int64, userId noslack.UserId,
	start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	return s.ByUserInRangeFn(ctx, pactId, userId, start, end)
}

func (s ActivityLogStore) ByUserInPactsInRange(ctx context.Context, userId noslack.UserId,
	pactIds []int64, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	return s.ByUserInPactsInRangeFn(ctx, userId, pactIds, start, end)
}

func (s ActivityLogStore) ByPactAndUser(ctx context.Context, pactId int64,
	userId noslack.UserId) ([]noslack.ActivityLog, error) {
	return s.ByPactAndUserFn(ctx, pactId, userId)
}
