package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noslackpact/noslack"
)

type ActivityStore struct {
	lastId     int64
	activities map[int64]noslack.Activity
	mutex      sync.RWMutex
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{activities: make(map[int64]noslack.Activity)}
}

func (s *ActivityStore) Create(ctx context.Context, activity noslack.Activity) (noslack.Activity, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastId++
	activity.Id = s.lastId
	activity.CreatedAt = time.Now()
	s.activities[activity.Id] = activity
	return activity, nil
}

func (s *ActivityStore) ById(ctx context.Context, activityId int64) (noslack.Activity, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	activity, ok := s.activities[activityId]
	if !ok {
		return noslack.Activity{}, noslack.ErrActivityNotFound
	}
	return activity, nil
}

func (s *ActivityStore) ByUserAndPact(ctx context.Context, userId noslack.UserId,
	pactId int64) ([]noslack.Activity, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	activities := make([]noslack.Activity, 0)
	for _, activity := range s.activities {
		if activity.UserId == userId && activity.PactId == pactId {
			activities = append(activities, activity)
		}
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].Id > activities[j].Id })
	return activities, nil
}

func (s *ActivityStore) ByIdsInPact(ctx context.Context, activityIds []int64,
	pactId int64) ([]noslack.Activity, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	activities := make([]noslack.Activity, 0, len(activityIds))
	for _, id := range activityIds {
		if activity, ok := s.activities[id]; ok && activity.PactId == pactId {
			activities = append(activities, activity)
		}
	}
	return activities, nil
}

func (s *ActivityStore) CountByUserAndPact(ctx context.Context, userId noslack.UserId,
	pactId int64) (int, error) {
	activities, err := s.ByUserAndPact(ctx, userId, pactId)
	if err != nil {
		return 0, err
	}
	return len(activities), nil
}

func (s *ActivityStore) PrimaryExists(ctx context.Context, userId noslack.UserId,
	pactId int64) (bool, error) {
	activities, err := s.ByUserAndPact(ctx, userId, pactId)
	if err != nil {
		return false, err
	}
	for _, activity := range activities {
		if activity.IsPrimary {
			return true, nil
		}
	}
	return false, nil
}
