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

type Activity struct {
	bun.BaseModel `bun:"table:activity"`

	Id           int64     `bun:",pk,autoincrement"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	PactId       int64     `bun:",notnull"`
	UserId       int64     `bun:",notnull"`
	Name         string    `bun:",notnull"`
	Description  string    `bun:",nullzero"`
	NumberOfDays int       `bun:",notnull"`
	IsPrimary    bool      `bun:",notnull,default:false"`
}

func (a Activity) ToDomain() noslack.Activity {
	return noslack.Activity{
		Id:           a.Id,
		CreatedAt:    a.CreatedAt,
		PactId:       a.PactId,
		UserId:       noslack.UserId(a.UserId),
		Name:         a.Name,
		Description:  a.Description,
		NumberOfDays: a.NumberOfDays,
		IsPrimary:    a.IsPrimary,
	}
}

type ActivityStore struct {
	DB *bun.DB
}

var _ noslack.ActivityStore = (*ActivityStore)(nil)

func (s *ActivityStore) Create(ctx context.Context, activity noslack.Activity) (noslack.Activity, error) {
	model := &Activity{
		PactId:       activity.PactId,
		UserId:       int64(activity.UserId),
		Name:         activity.Name,
		Description:  activity.Description,
		NumberOfDays: activity.NumberOfDays,
		IsPrimary:    activity.IsPrimary,
	}
	_, err := s.DB.NewInsert().
		Model(model).
		Exec(ctx)
	if err != nil {
		return noslack.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return model.ToDomain(), nil
}

func (s *ActivityStore) ById(ctx context.Context, activityId int64) (noslack.Activity, error) {
	activity := new(Activity)
	err := s.DB.NewSelect().
		Model(activity).
		Where("id=?", activityId).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return noslack.Activity{}, noslack.ErrActivityNotFound
	}
	if err != nil {
		return noslack.Activity{}, fmt.Errorf("select activity: %w", err)
	}
	return activity.ToDomain(), nil
}

func (s *ActivityStore) ByUserAndPact(ctx context.Context, userId noslack.UserId,
	pactId int64) ([]noslack.Activity, error) {
	var activities []Activity
	err := s.DB.NewSelect().
		Model((*Activity)(nil)).
		Where("user_id=?", int64(userId)).
		Where("pact_id=?", pactId).
		Order("created_at DESC").
		Scan(ctx, &activities)
	if err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	return activitiesToDomain(activities), nil
}

func (s *ActivityStore) ByIdsInPact(ctx context.Context, activityIds []int64,
	pactId int64) ([]noslack.Activity, error) {
	if len(activityIds) == 0 {
		return []noslack.Activity{}, nil
	}
	var activities []Activity
	err := s.DB.NewSelect().
		Model((*Activity)(nil)).
		Where("id IN (?)", bun.In(activityIds)).
		Where("pact_id=?", pactId).
		Scan(ctx, &activities)
	if err != nil {
		return nil, fmt.Errorf("select activities in pact: %w", err)
	}
	return activitiesToDomain(activities), nil
}

func (s *ActivityStore) CountByUserAndPact(ctx context.Context, userId noslack.UserId,
	pactId int64) (int, error) {
	count, err := s.DB.NewSelect().
		Model((*Activity)(nil)).
		Where("user_id=?", int64(userId)).
		Where("pact_id=?", pactId).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return count, nil
}

func (s *ActivityStore) PrimaryExists(ctx context.Context, userId noslack.UserId,
	pactId int64) (bool, error) {
	exists, err := s.DB.NewSelect().
		Model((*Activity)(nil)).
		Where("user_id=?", int64(userId)).
		Where("pact_id=?", pactId).
		Where("is_primary").
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("primary activity exists: %w", err)
	}
	return exists, nil
}

func activitiesToDomain(activities []Activity) []noslack.Activity {
	mapped := make([]noslack.Activity, len(activities))
	for i, activity := range activities {
		mapped[i] = activity.ToDomain()
	}
	return mapped
}
