package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noslackpact/noslack"
)

type ActivityLogStore struct {
	lastId int64
	logs   map[int64]noslack.ActivityLog
	mutex  sync.RWMutex

	// Offset the uniqueness day key is computed in. Zero means the default
	// +05:30.
	OffsetMinutes int
}

func NewActivityLogStore() *ActivityLogStore {
	return &ActivityLogStore{logs: make(map[int64]noslack.ActivityLog)}
}

func (s *ActivityLogStore) offset() int {
	if s.OffsetMinutes == 0 {
		return noslack.DefaultOffsetMinutes
	}
	return s.OffsetMinutes
}

func (s *ActivityLogStore) Create(ctx context.Context, log noslack.ActivityLog) (noslack.ActivityLog, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	dayKey := noslack.DayKey(log.OccurredAt, s.offset())
	for _, existing := range s.logs {
		if existing.PactId == log.PactId && existing.UserId == log.UserId &&
			noslack.DayKey(existing.OccurredAt, s.offset()) == dayKey {
			return noslack.ActivityLog{}, noslack.ErrAlreadyLogged
		}
	}
	s.lastId++
	log.Id = s.lastId
	log.CreatedAt = time.Now()
	s.logs[log.Id] = log
	return log, nil
}

func (s *ActivityLogStore) ById(ctx context.Context, logId int64) (noslack.ActivityLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	log, ok := s.logs[logId]
	if !ok {
		return noslack.ActivityLog{}, noslack.ErrLogNotFound
	}
	return log, nil
}

func (s *ActivityLogStore) ExistsInRange(ctx context.Context, pactId int64,
	userId noslack.UserId, start time.Time, end time.Time) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, log := range s.logs {
		if log.PactId == pactId && log.UserId == userId && inRange(log.OccurredAt, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ActivityLogStore) ByActivityInRange(ctx context.Context, pactId int64,
	activityId int64, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	return s.filter(func(log noslack.ActivityLog) bool {
		return log.PactId == pactId && log.ActivityId == activityId &&
			inRange(log.OccurredAt, start, end)
	}), nil
}

func (s *ActivityLogStore) ByUserInRange(ctx context.Context, pactId int64,
	userId noslack.UserId, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	return s.filter(func(log noslack.ActivityLog) bool {
		return log.PactId == pactId && log.UserId == userId &&
			inRange(log.OccurredAt, start, end)
	}), nil
}

func (s *ActivityLogStore) ByUserInPactsInRange(ctx context.Context, userId noslack.UserId,
	pactIds []int64, start time.Time, end time.Time) ([]noslack.ActivityLog, error) {
	members := make(map[int64]struct{}, len(pactIds))
	for _, id := range pactIds {
		members[id] = struct{}{}
	}
	return s.filter(func(log noslack.ActivityLog) bool {
		_, ok := members[log.PactId]
		return ok && log.UserId == userId && inRange(log.OccurredAt, start, end)
	}), nil
}

func (s *ActivityLogStore) ByPactAndUser(ctx context.Context, pactId int64,
	userId noslack.UserId) ([]noslack.ActivityLog, error) {
	logs := s.filter(func(log noslack.ActivityLog) bool {
		return log.PactId == pactId && log.UserId == userId
	})
	sort.Slice(logs, func(i, j int) bool { return logs[i].OccurredAt.After(logs[j].OccurredAt) })
	return logs, nil
}

func (s *ActivityLogStore) filter(match func(noslack.ActivityLog) bool) []noslack.ActivityLog {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	logs := make([]noslack.ActivityLog, 0)
	for _, log := range s.logs {
		if match(log) {
			logs = append(logs, log)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Id < logs[j].Id })
	return logs
}

func inRange(t time.Time, start time.Time, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
