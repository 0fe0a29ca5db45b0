package mock

import (
	"context"

	"github.com/noslackpact/noslack"
)

type ActivityStore struct {
	CreateFn func(ctx context.Context, activity noslack.Activity) (noslack.Activity, error)

	ByIdFn func(ctx context.Context, activityId int64) (noslack.Activity, error)

	ByUserAndPactFn func(ctx context.Context, userId noslack.UserId, pactId int64) ([]noslack.Activity, error)

	ByIdsInPactFn func(ctx context.Context, activityIds []int64, pactId int64) ([]noslack.Activity, error)

	CountByUserAndPactFn func(ctx context.Context, userId noslack.UserId, pactId int64) (int, error)

	PrimaryExistsFn func(ctx context.Context, userId noslack.UserId, pactId int64) (bool, error)
}

func (s ActivityStore) Create(ctx context.Context, activity noslack.Activity) (noslack.Activity, error) {
	return s.CreateFn(ctx, activity)
}

func (s ActivityStore) ById(ctx context.Context, activityId int64) (noslack.Activity, error) {
	return s.ByIdFn(ctx, activityId)
}

func (s ActivityStore) ByUserAndPact(ctx context.Context, userId noslack.UserId,
	pactId int64) ([]noslack.Activity, error) {
	return s.ByUserAndPactFn(ctx, userId, pactId)
}

func (s ActivityStore) ByIdsInPact(ctx context.Context, activityIds []int64,
	pactId int64) ([]noslack.Activity, error) {
	return s.ByIdsInPactFn(ctx, activityIds, pactId)
}

func (s ActivityStore) CountByUserAndPact(ctx context.Context, userId noslack.UserId,
	pactId int64) (int, error) {
	return s.CountByUserAndPactFn(ctx, userId, pactId)
}

func (s ActivityStore) PrimaryExists(ctx context.Context, userId noslack.UserId,
	pactId int64) (bool, error) {
	return s.PrimaryExistsFn(ctx, userId, pactId)
}
