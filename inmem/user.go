package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/noslackpact/noslack"
)

type UserStore struct {
	lastId int64
	users  map[noslack.UserId]noslack.User
	mutex  sync.RWMutex
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[noslack.UserId]noslack.User)}
}

func (s *UserStore) Register(ctx context.Context, user noslack.User) (noslack.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return existing, nil
		}
	}
	s.lastId++
	user.Id = noslack.UserId(s.lastId)
	user.CreatedAt = time.Now()
	s.users[user.Id] = user
	return user, nil
}

func (s *UserStore) ById(ctx context.Context, userId noslack.UserId) (noslack.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	user, ok := s.users[userId]
	if !ok {
		return noslack.User{}, noslack.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) ByIds(ctx context.Context, userIds []noslack.UserId) ([]noslack.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	users := make([]noslack.User, 0, len(userIds))
	for _, id := range userIds {
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *UserStore) SetPactDetails(ctx context.Context, userId noslack.UserId,
	details noslack.PactDetails) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	user, ok := s.users[userId]
	if !ok {
		return noslack.ErrUserNotFound
	}
	user.PactDetails = &details
	s.users[userId] = user
	return nil
}
