package mock

import (
	"context"

	"github.com/noslackpact/noslack"
)

type PactStore struct {
	CreateFn func(ctx context.Context, pact noslack.Pact) (noslack.Pact, error)

	ByIdFn func(ctx context.Context, pactId int64) (noslack.Pact, error)

	AllActiveFn func(ctx context.Context) ([]noslack.Pact, error)

	ByParticipantFn func(ctx context.Context, userId noslack.UserId) ([]noslack.Pact, error)

	AddParticipantFn func(ctx context.Context, pactId int64, userId noslack.UserId) error
}

func (s PactStore) Create(ctx context.Context, pact noslack.Pact) (noslack.Pact, error) {
	return s.CreateFn(ctx, pact)
}

func (s PactStore) ById(ctx context.Context, pactId int64) (noslack.Pact, error) {
	return s.ByIdFn(ctx, pactId)
}

func (s PactStore) AllActive(ctx context.Context) ([]noslack.Pact, error) {
	return s.AllActiveFn(ctx)
}

func (s PactStore) ByParticipant(ctx context.Context, userId noslack.UserId) ([]noslack.Pact, error) {
	return s.ByParticipantFn(ctx, userId)
}

func (s PactStore) AddParticipant(ctx context.Context, pactId int64, userId noslack.UserId) error {
	return s.AddParticipantFn(ctx, pactId, userId)
}
