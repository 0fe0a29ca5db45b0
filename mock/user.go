package mock

import (
	"context"

	"github.com/noslackpact/noslack"
)

type UserStore struct {
	RegisterFn func(ctx context.Context, user noslack.User) (noslack.User, error)

	ByIdFn func(ctx context.Context, userId noslack.UserId) (noslack.User, error)

	ByIdsFn func(ctx context.Context, userIds []noslack.UserId) ([]noslack.User, error)

	SetPactDetailsFn func(ctx context.Context, userId noslack.UserId, details noslack.PactDetails) error
}

func (s UserStore) Register(ctx context.Context, user noslack.User) (noslack.User, error) {
	return s.RegisterFn(ctx, user)
}

func (s UserStore) ById(ctx context.Context, userId noslack.UserId) (noslack.User, error) {
	return s.ByIdFn(ctx, userId)
}

func (s UserStore) ByIds(ctx context.Context, userIds []noslack.UserId) ([]noslack.User, error) {
	return s.ByIdsFn(ctx, userIds)
}

func (s UserStore) SetPactDetails(ctx context.Context, userId noslack.UserId,
	details noslack.PactDetails) error {
	return s.SetPactDetailsFn(ctx, userId, details)
}
