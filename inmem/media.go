package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noslackpact/noslack"
)

type MediaStore struct {
	lastId int64
	media  map[int64]noslack.Media
	mutex  sync.RWMutex

	// Now is the creation clock, overridable so tests can place media inside
	// a chosen day window. Defaults to time.Now.
	Now func() time.Time
}

func NewMediaStore() *MediaStore {
	return &MediaStore{media: make(map[int64]noslack.Media)}
}

func (s *MediaStore) Create(ctx context.Context, media noslack.Media) (noslack.Media, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastId++
	media.Id = s.lastId
	if s.Now != nil {
		media.CreatedAt = s.Now()
	} else {
		media.CreatedAt = time.Now()
	}
	s.media[media.Id] = media
	return media, nil
}

func (s *MediaStore) ByOwnerInRange(ctx context.Context, pactId int64, activityId int64,
	userId noslack.UserId, start time.Time, end time.Time) ([]noslack.Media, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	media := make([]noslack.Media, 0)
	for _, m := range s.media {
		if m.PactId == pactId && m.ActivityId == activityId && m.UserId == userId &&
			inRange(m.CreatedAt, start, end) {
			media = append(media, m)
		}
	}
	sort.Slice(media, func(i, j int) bool { return media[i].CreatedAt.Before(media[j].CreatedAt) })
	return media, nil
}
