package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/noslackpact/noslack"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_log"`

	Id         int64     `bun:",pk,autoincrement"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	PactId     int64     `bun:",notnull,unique:day_log"`
	ActivityId int64     `bun:",notnull"`
	UserId     int64     `bun:",notnull,unique:day_log"`
	Notes      string    `bun:",nullzero"`
	Verified   bool      `bun:",notnull,default:false"`
	OccurredAt time.Time `bun:",notnull"`
	// Offset-local calendar day of OccurredAt. The day_log unique group on
	// (pact_id, user_id, day_key) is what actually closes the concurrent
	// duplicate-log race; the service-level existence check only orders the
	// guard errors.
	DayKey string `bun:",notnull,unique:day_log"`
}

func (l ActivityLog) ToDomain() noslack.ActivityLog {
	return noslack.ActivityLog{
		Id:         l.Id,
		CreatedAt:  l.CreatedAt,
		PactId:     l.PactId,
		ActivityId: l.ActivityId,
		UserId:     noslack.UserId(l.UserId),
		Notes:      l.Notes,
		Verified:   l.Verified,
		OccurredAt: l.OccurredAt,
	}
}

type ActivityLogStore struct {
	DB *bun.DB
	// Offset the day_key column is computed in. Zero means the default
	// +05:30.
	OffsetMinutes int
}

var _ noslack.ActivityLogStore = (*ActivityLogStore)(nil)

func (s *ActivityLogStore) offset() int {
	if s.OffsetMinutes == 0 {
		return noslack.DefaultOffsetMinutes
	}
	return s.OffsetMinutes
}

const uniqueViolation = "23505"

func (s *ActivityLogStore) Create(ctx context.Context, log noslack.ActivityLog) (noslack.ActivityLog, error) {
	model := &ActivityLog{
		PactId:     log.PactId,
		ActivityId: log.ActivityId,
		UserId:     int64(log.UserId),
		Notes:      log.Notes,
		Verified:   log.Verified,
		OccurredAt: log.OccurredAt,
		DayKey:     noslack.DayKey(log.OccurredAt, s.offset()),
	}
	_, err := s.DB.NewInsert().
		Model(model).
		Exec(ctx)
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return noslack.ActivityLog{}, noslack.ErrAlreadyLogged
	}
	if err != nil {
		return noslack.ActivityLog{}, fmt.Errorf("insert activity log: %w", err)
	}
	return model.ToDomain(), nil
}

func (s *ActivityLogStore) ById(ctx context.Context, logId int64) (noslack.ActivityLog, error) {
	log := new(ActivityLog)
	err := s.DB.NewSelect().
		Model(log).
		Where("id=?", logId).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return noslack.ActivityLog{}, noslack.ErrLogNotFound
	}
	if err != nil {
		return noslack.ActivityLog{}, fmt.Errorf("select activity log: %w", err)
	}
	return log.ToDomain(), nil
}

func (s *ActivityLogStore) ExistsInRange(ctx context.Context, pactId int64,
	userId noslack.UserId, start time.Time, end time.Time) (bool, error) {
	exists, err := s.DB.NewSelect().
		Model((*ActivityLog)(nil)).
		Where("pact_id=?", pactId).
		Where("user_id=?", int64(userId)).
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("log exists: %w", err)
	}
	return exists, nil
}

func (s *ActivityLogStore) ByActivityInRange(ctx context.Context, pactId int64,
	activityId int64, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	var logs []ActivityLog
	err := s.DB.NewSelect().
		Model((*ActivityLog)(nil)).
		Where("pact_id=?", pactId).
		Where("activity_id=?", activityId).
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Scan(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("select logs by activity: %w", err)
	}
	return logsToDomain(logs), nil
}

func (s *ActivityLogStore) ByUserInRange(ctx context.Context, pactId int64,
	userId noslack.UserId, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	var logs []ActivityLog
	err := s.DB.NewSelect().
		Model((*ActivityLog)(nil)).
		Where("pact_id=?", pactId).
		Where("user_id=?", int64(userId)).
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Scan(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("select logs by user: %w", err)
	}
	return logsToDomain(logs), nil
}

func (s *ActivityLogStore) ByUserInPactsInRange(ctx context.Context, userId noslack.UserId,
	pactIds []int64, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	if len(pactIds) == 0 {
		return []noslack.ActivityLog{}, nil
	}
	var logs []ActivityLog
	err := s.DB.NewSelect().
		Model((*ActivityLog)(nil)).
		Where("user_id=?", int64(userId)).
		Where("pact_id IN (?)", bun.In(pactIds)).
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Scan(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("select logs in pacts: %w", err)
	}
	return logsToDomain(logs), nil
}

func (s *ActivityLogStore) ByPactAndUser(ctx context.Context, pactId int64,
	userId noslack.UserId) ([]noslack.ActivityLog, error) {
	var logs []ActivityLog
	err := s.DB.NewSelect().
		Model((*ActivityLog)(nil)).
		Where("pact_id=?", pactId).
		Where("user_id=?", int64(userId)).
		Order("occurred_at DESC").
		Scan(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("select logs: %w", err)
	}
	return logsToDomain(logs), nil
}

func logsToDomain(logs []ActivityLog) []noslack.ActivityLog {
	mapped := make([]noslack.ActivityLog, len(logs))
	for i, log := range logs {
		mapped[i] = log.ToDomain()
	}
	return mapped
}
