package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/noslackpact/noslack"
	"github.com/uptrace/bun"
)

type Pact struct {
	bun.BaseModel `bun:"table:pact"`

	Id                   int64     `bun:",pk,autoincrement"`
	CreatedAt            time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	Title                string    `bun:",notnull"`
	Description          string    `bun:",nullzero"`
	Status               string    `bun:",notnull,default:'active'"`
	StartDate            time.Time `bun:",nullzero"`
	EndDate              time.Time `bun:",nullzero"`
	MinDaysPerWeek       int       `bun:",notnull"`
	MaxActivitiesPerUser int       `bun:",notnull"`
	SkipFine             int       `bun:",notnull"`
	LeaveFine            int       `bun:",notnull"`
	Participants         []int64   `bun:",notnull,array"`
}

func (p Pact) ToDomain() noslack.Pact {
	participants := make([]noslack.UserId, len(p.Participants))
	for i, id := range p.Participants {
		participants[i] = noslack.UserId(id)
	}
	return noslack.Pact{
		Id:                   p.Id,
		CreatedAt:            p.CreatedAt,
		Title:                p.Title,
		Description:          p.Description,
		Status:               p.Status,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		MinDaysPerWeek:       p.MinDaysPerWeek,
		MaxActivitiesPerUser: p.MaxActivitiesPerUser,
		SkipFine:             p.SkipFine,
		LeaveFine:            p.LeaveFine,
		Participants:         participants,
	}
}

func pactToModel(pact noslack.Pact) *Pact {
	participants := make([]int64, len(pact.Participants))
	for i, id := range pact.Participants {
		participants[i] = int64(id)
	}
	return &Pact{
		Id:                   pact.Id,
		Title:                pact.Title,
		Description:          pact.Description,
		Status:               pact.Status,
		StartDate:            pact.StartDate,
		EndDate:              pact.EndDate,
		MinDaysPerWeek:       pact.MinDaysPerWeek,
		MaxActivitiesPerUser: pact.MaxActivitiesPerUser,
		SkipFine:             pact.SkipFine,
		LeaveFine:            pact.LeaveFine,
		Participants:         participants,
	}
}

type PactStore struct {
	DB *bun.DB
}

var _ noslack.PactStore = (*PactStore)(nil)

func (s *PactStore) Create(ctx context.Context, pact noslack.Pact) (noslack.Pact, error) {
	model := pactToModel(pact)
	if model.Status == "" {
		model.Status = noslack.PactStatusActive
	}
	if model.Participants == nil {
		model.Participants = []int64{}
	}
	_, err := s.DB.NewInsert().
		Model(model).
		Exec(ctx)
	if err != nil {
		return noslack.Pact{}, fmt.Errorf("insert pact: %w", err)
	}
	return model.ToDomain(), nil
}

func (s *PactStore) ById(ctx context.Context, pactId int64) (noslack.Pact, error) {
	pact := new(Pact)
	err := s.DB.NewSelect().
		Model(pact).
		Where("id=?", pactId).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return noslack.Pact{}, noslack.ErrPactNotFound
	}
	if err != nil {
		return noslack.Pact{}, fmt.Errorf("select pact: %w", err)
	}
	return pact.ToDomain(), nil
}

func (s *PactStore) AllActive(ctx context.Context) ([]noslack.Pact, error) {
	var pacts []Pact
	err := s.DB.NewSelect().
		Model((*Pact)(nil)).
		Where("status=?", noslack.PactStatusActive).
		Order("created_at DESC").
		Scan(ctx, &pacts)
	if err != nil {
		return nil, fmt.Errorf("select active pacts: %w", err)
	}
	return pactsToDomain(pacts), nil
}

func (s *PactStore) ByParticipant(ctx context.Context, userId noslack.UserId) ([]noslack.Pact, error) {
	var pacts []Pact
	err := s.DB.NewSelect().
		Model((*Pact)(nil)).
		Where("?=ANY(participants)", int64(userId)).
		Order("created_at DESC").
		Scan(ctx, &pacts)
	if err != nil {
		return nil, fmt.Errorf("select pacts by participant: %w", err)
	}
	return pactsToDomain(pacts), nil
}

func (s *PactStore) AddParticipant(ctx context.Context, pactId int64, userId noslack.UserId) error {
	result, err := s.DB.NewUpdate().
		Model((*Pact)(nil)).
		Set("participants=array_append(participants, ?)", int64(userId)).
		Where("id=?", pactId).
		Where("NOT ?=ANY(participants)", int64(userId)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("append participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return noslack.ErrAlreadyParticipant
	}
	return nil
}

func pactsToDomain(pacts []Pact) []noslack.Pact {
	mapped := make([]noslack.Pact, len(pacts))
	for i, pact := range pacts {
		mapped[i] = pact.ToDomain()
	}
	return mapped
}
