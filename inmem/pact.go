package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noslackpact/noslack"
)

type PactStore struct {
	lastId int64
	pacts  map[int64]noslack.Pact
	mutex  sync.RWMutex
}

func NewPactStore() *PactStore {
	return &PactStore{pacts: make(map[int64]noslack.Pact)}
}

func (s *PactStore) Create(ctx context.Context, pact noslack.Pact) (noslack.Pact, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastId++
	pact.Id = s.lastId
	pact.CreatedAt = time.Now()
	if pact.Status == "" {
		pact.Status = noslack.PactStatusActive
	}
	s.pacts[pact.Id] = pact
	return pact, nil
}

func (s *PactStore) ById(ctx context.Context, pactId int64) (noslack.Pact, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pact, ok := s.pacts[pactId]
	if !ok {
		return noslack.Pact{}, noslack.ErrPactNotFound
	}
	return pact, nil
}

func (s *PactStore) AllActive(ctx context.Context) ([]noslack.Pact, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pacts := make([]noslack.Pact, 0, len(s.pacts))
	for _, pact := range s.pacts {
		if pact.Status == noslack.PactStatusActive {
			pacts = append(pacts, pact)
		}
	}
	sort.Slice(pacts, func(i, j int) bool { return pacts[i].CreatedAt.After(pacts[j].CreatedAt) })
	return pacts, nil
}

func (s *PactStore) ByParticipant(ctx context.Context, userId noslack.UserId) ([]noslack.Pact, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pacts := make([]noslack.Pact, 0)
	for _, pact := range s.pacts {
		if pact.HasParticipant(userId) {
			pacts = append(pacts, pact)
		}
	}
	sort.Slice(pacts, func(i, j int) bool { return pacts[i].Id < pacts[j].Id })
	return pacts, nil
}

func (s *PactStore) AddParticipant(ctx context.Context, pactId int64, userId noslack.UserId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	pact, ok := s.pacts[pactId]
	if !ok {
		return noslack.ErrPactNotFound
	}
	if pact.HasParticipant(userId) {
		return noslack.ErrAlreadyParticipant
	}
	pact.Participants = append(pact.Participants, userId)
	s.pacts[pactId] = pact
	return nil
}
