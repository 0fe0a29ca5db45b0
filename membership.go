package noslack

import "context"

// MembershipService handles users joining pacts.
type MembershipService struct {
	Users      UserStore
	Pacts      PactStore
	Activities ActivityStore
}

type JoinPactParams struct {
	UserId      UserId
	PactId      int64
	ActivityIds []int64
}

// JoinPact records the user's membership (primary/secondary activity picked
// by the activities' IsPrimary flags) and grows the pact's participant set.
func (s *MembershipService) JoinPact(ctx context.Context, params JoinPactParams) (User, Pact, error) {
	user, err := s.Users.ById(ctx, params.UserId)
	if err != nil {
		return User{}, Pact{}, err
	}
	pact, err := s.Pacts.ById(ctx, params.PactId)
	if err != nil {
		return User{}, Pact{}, err
	}
	activities, err := s.Activities.ByIdsInPact(ctx, params.ActivityIds, params.PactId)
	if err != nil {
		return User{}, Pact{}, err
	}
	if len(activities) != len(params.ActivityIds) {
		return User{}, Pact{}, ErrActivityNotFound
	}
	if pact.HasParticipant(user.Id) {
		return User{}, Pact{}, ErrAlreadyParticipant
	}

	details := PactDetails{PactId: pact.Id}
	for _, activity := range activities {
		if activity.IsPrimary {
			details.PrimaryActivityId = activity.Id
		} else {
			details.SecondaryActivityId = activity.Id
		}
	}
	if err := s.Users.SetPactDetails(ctx, user.Id, details); err != nil {
		return User{}, Pact{}, err
	}
	if err := s.Pacts.AddParticipant(ctx, pact.Id, user.Id); err != nil {
		return User{}, Pact{}, err
	}

	user.PactDetails = &details
	pact.Participants = append(pact.Participants, user.Id)
	return user, pact, nil
}

// ActivityService validates activity creation against the pact's limits.
type ActivityService struct {
	Users      UserStore
	Pacts      PactStore
	Activities ActivityStore
}

func (s *ActivityService) CreateActivity(ctx context.Context, activity Activity) (Activity, error) {
	pact, err := s.Pacts.ById(ctx, activity.PactId)
	if err != nil {
		return Activity{}, err
	}
	if _, err := s.Users.ById(ctx, activity.UserId); err != nil {
		return Activity{}, err
	}

	count, err := s.Activities.CountByUserAndPact(ctx, activity.UserId, activity.PactId)
	if err != nil {
		return Activity{}, err
	}
	if count >= pact.MaxActivitiesPerUser {
		return Activity{}, ErrActivityLimit
	}
	if activity.IsPrimary {
		exists, err := s.Activities.PrimaryExists(ctx, activity.UserId, activity.PactId)
		if err != nil {
			return Activity{}, err
		}
		if exists {
			return Activity{}, ErrPrimaryActivityExists
		}
	}
	return s.Activities.Create(ctx, activity)
}

// UserActivities lists the user's activities in the pact, newest first.
func (s *ActivityService) UserActivities(ctx context.Context, userId UserId,
	pactId int64) ([]Activity, error) {
	if _, err := s.Users.ById(ctx, userId); err != nil {
		return nil, err
	}
	if _, err := s.Pacts.ById(ctx, pactId); err != nil {
		return nil, err
	}
	return s.Activities.ByUserAndPact(ctx, userId, pactId)
}
