package noslack

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPactNotFound       = errors.New("pact not found")
	ErrAlreadyParticipant = errors.New("user is already a participant in this pact")
)

const (
	PactStatusActive    = "active"
	PactStatusCompleted = "completed"
	PactStatusCancelled = "cancelled"
)

type Pact struct {
	Id          int64
	CreatedAt   time.Time
	Title       string
	Description string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	// Weekly day-count target every participant commits to, 1-7.
	MinDaysPerWeek       int
	MaxActivitiesPerUser int
	SkipFine             int
	LeaveFine            int
	Participants         []UserId
}

func (p Pact) HasParticipant(userId UserId) bool {
	for _, id := range p.Participants {
		if id == userId {
			return true
		}
	}
	return false
}

// TargetDays is MinDaysPerWeek with the historical default of 5 for pacts
// persisted without one.
func (p Pact) TargetDays() int {
	if p.MinDaysPerWeek == 0 {
		return 5
	}
	return p.MinDaysPerWeek
}

type PactStore interface {
	Create(ctx context.Context, pact Pact) (Pact, error)

	ById(ctx context.Context, pactId int64) (Pact, error)

	// Active pacts, most recently created first.
	AllActive(ctx context.Context) ([]Pact, error)

	ByParticipant(ctx context.Context, userId UserId) ([]Pact, error)

	// The participant set only ever grows.
	AddParticipant(ctx context.Context, pactId int64, userId UserId) error
}
