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

type User struct {
	bun.BaseModel `bun:"table:pact_user"`

	Id        int64     `bun:",pk,autoincrement"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	Email     string    `bun:",notnull,unique"`
	Name      string    `bun:",notnull"`
	Phone     string    `bun:",notnull"`

	// Membership columns, null until the user joins a pact.
	PactId              int64 `bun:",nullzero"`
	PrimaryActivityId   int64 `bun:",nullzero"`
	SecondaryActivityId int64 `bun:",nullzero"`
}

func (u User) ToDomain() noslack.User {
	user := noslack.User{
		Id:        noslack.UserId(u.Id),
		CreatedAt: u.CreatedAt,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
	}
	if u.PactId != 0 {
		user.PactDetails = &noslack.PactDetails{
			PactId:              u.PactId,
			PrimaryActivityId:   u.PrimaryActivityId,
			SecondaryActivityId: u.SecondaryActivityId,
		}
	}
	return user
}

type UserStore struct {
	DB *bun.DB
}

var _ noslack.UserStore = (*UserStore)(nil)

func (s *UserStore) Register(ctx context.Context, user noslack.User) (noslack.User, error) {
	model := &User{
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
	}
	_, err := s.DB.NewInsert().
		Model(model).
		On(`CONFLICT (email) DO NOTHING`).
		Exec(ctx)
	if err != nil {
		return noslack.User{}, fmt.Errorf("insert user: %w", err)
	}
	if model.Id != 0 {
		return model.ToDomain(), nil
	}

	// Email already registered; hand back the existing user.
	existing := new(User)
	err = s.DB.NewSelect().
		Model(existing).
		Where("email=?", user.Email).
		Scan(ctx)
	if err != nil {
		return noslack.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return existing.ToDomain(), nil
}

func (s *UserStore) ById(ctx context.Context, userId noslack.UserId) (noslack.User, error) {
	user := new(User)
	err := s.DB.NewSelect().
		Model(user).
		Where("id=?", int64(userId)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return noslack.User{}, noslack.ErrUserNotFound
	}
	if err != nil {
		return noslack.User{}, fmt.Errorf("select user: %w", err)
	}
	return user.ToDomain(), nil
}

func (s *UserStore) ByIds(ctx context.Context, userIds []noslack.UserId) ([]noslack.User, error) {
	if len(userIds) == 0 {
		return []noslack.User{}, nil
	}
	ids := make([]int64, len(userIds))
	for i, id := range userIds {
		ids[i] = int64(id)
	}
	var users []User
	err := s.DB.NewSelect().
		Model((*User)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	mapped := make([]noslack.User, len(users))
	for i, user := range users {
		mapped[i] = user.ToDomain()
	}
	return mapped, nil
}

func (s *UserStore) SetPactDetails(ctx context.Context, userId noslack.UserId,
	details noslack.PactDetails) error {
	result, err := s.DB.NewUpdate().
		Model((*User)(nil)).
		Set("pact_id=?", details.PactId).
		Set("primary_activity_id=NULLIF(?, 0)", details.PrimaryActivityId).
		Set("secondary_activity_id=NULLIF(?, 0)", details.SecondaryActivityId).
		Where("id=?", int64(userId)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update pact details: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return noslack.ErrUserNotFound
	}
	return nil
}
