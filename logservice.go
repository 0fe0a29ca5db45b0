package noslack

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// LogService owns activity-log admission and the weekly progress reads.
type LogService struct {
	Users      UserStore
	Pacts      PactStore
	Activities ActivityStore
	Logs       ActivityLogStore
	Media      MediaStore

	// Fixed UTC offset all day and week boundaries are computed in.
	OffsetMinutes int

	// Now is the reference clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *LogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateLogParams struct {
	PactId     int64
	ActivityId int64
	UserId     UserId
	Notes      string
	// Zero means now.
	OccurredAt time.Time
}

// CreateLog validates the request and persists one entry for the offset-local
// calendar day containing OccurredAt. The duplicate check here gives ordered
// guard errors; the store's uniqueness constraint closes the remaining
// concurrent race.
func (s *LogService) CreateLog(ctx context.Context, params CreateLogParams) (ActivityLog, error) {
	if _, err := s.Users.ById(ctx, params.UserId); err != nil {
		return ActivityLog{}, err
	}
	pact, err := s.Pacts.ById(ctx, params.PactId)
	if err != nil {
		return ActivityLog{}, err
	}
	activity, err := s.Activities.ById(ctx, params.ActivityId)
	if err != nil {
		return ActivityLog{}, err
	}
	if activity.PactId != params.PactId {
		return ActivityLog{}, ErrActivityNotFound
	}
	if !pact.HasParticipant(params.UserId) {
		return ActivityLog{}, ErrNotParticipant
	}

	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	dayStart, dayEnd := DayWindow(occurredAt, s.OffsetMinutes)
	exists, err := s.Logs.ExistsInRange(ctx, params.PactId, params.UserId, dayStart, dayEnd)
	if err != nil {
		return ActivityLog{}, fmt.Errorf("check day log: %w", err)
	}
	if exists {
		return ActivityLog{}, ErrAlreadyLogged
	}

	return s.Logs.Create(ctx, ActivityLog{
		PactId:     params.PactId,
		ActivityId: params.ActivityId,
		UserId:     params.UserId,
		Notes:      params.Notes,
		Verified:   false,
		OccurredAt: occurredAt,
	})
}

type UserProgress struct {
	UserId       UserId
	TargetDays   int
	ActivityDays int
}

type ActivityProgress struct {
	TargetDays int
	Users      []UserProgress
}

type PactProgress struct {
	PactId       int64
	TargetDays   int
	ActivityDays int
}

// WeeklyProgressByActivity reports, for every current participant of the
// pact, how many distinct offset-local days they logged the given activity
// in the current week. Participants without entries report zero.
func (s *LogService) WeeklyProgressByActivity(ctx context.Context, pactId int64,
	activityId int64) (ActivityProgress, error) {
	pact, err := s.Pacts.ById(ctx, pactId)
	if err != nil {
		return ActivityProgress{}, err
	}
	activity, err := s.Activities.ById(ctx, activityId)
	if err != nil {
		return ActivityProgress{}, err
	}
	if activity.PactId != pactId {
		return ActivityProgress{}, ErrActivityNotFound
	}

	week := WeekWindow(s.now(), s.OffsetMinutes)
	logs, err := s.Logs.ByActivityInRange(ctx, pactId, activityId, week.Start, week.End)
	if err != nil {
		return ActivityProgress{}, fmt.Errorf("query week logs: %w", err)
	}

	userDays := make(map[UserId]map[string]struct{})
	for _, log := range logs {
		days, ok := userDays[log.UserId]
		if !ok {
			days = make(map[string]struct{})
			userDays[log.UserId] = days
		}
		days[DayKey(log.OccurredAt, s.OffsetMinutes)] = struct{}{}
	}

	targetDays := pact.TargetDays()
	users := make([]UserProgress, len(pact.Participants))
	for i, userId := range pact.Participants {
		users[i] = UserProgress{
			UserId:       userId,
			TargetDays:   targetDays,
			ActivityDays: len(userDays[userId]),
		}
	}
	return ActivityProgress{TargetDays: targetDays, Users: users}, nil
}

// WeeklyProgressForUser counts the user's distinct logged days across all
// activities of the pact in the current week.
func (s *LogService) WeeklyProgressForUser(ctx context.Context, pactId int64,
	userId UserId) (UserProgress, error) {
	pact, err := s.Pacts.ById(ctx, pactId)
	if err != nil {
		return UserProgress{}, err
	}
	if !pact.HasParticipant(userId) {
		return UserProgress{}, ErrNotParticipant
	}

	week := WeekWindow(s.now(), s.OffsetMinutes)
	logs, err := s.Logs.ByUserInRange(ctx, pactId, userId, week.Start, week.End)
	if err != nil {
		return UserProgress{}, fmt.Errorf("query week logs: %w", err)
	}
	days := make(map[string]struct{})
	for _, log := range logs {
		days[DayKey(log.OccurredAt, s.OffsetMinutes)] = struct{}{}
	}
	return UserProgress{
		UserId:       userId,
		TargetDays:   pact.TargetDays(),
		ActivityDays: len(days),
	}, nil
}

// WeeklyProgressAcrossPacts reports the user's current-week distinct-day
// count for every pact they participate in. Empty when they are in none.
func (s *LogService) WeeklyProgressAcrossPacts(ctx context.Context,
	userId UserId) ([]PactProgress, error) {
	pacts, err := s.Pacts.ByParticipant(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("query pacts: %w", err)
	}
	if len(pacts) == 0 {
		return []PactProgress{}, nil
	}

	pactIds := make([]int64, len(pacts))
	for i, pact := range pacts {
		pactIds[i] = pact.Id
	}
	week := WeekWindow(s.now(), s.OffsetMinutes)
	logs, err := s.Logs.ByUserInPactsInRange(ctx, userId, pactIds, week.Start, week.End)
	if err != nil {
		return nil, fmt.Errorf("query week logs: %w", err)
	}

	pactDays := make(map[int64]map[string]struct{})
	for _, log := range logs {
		days, ok := pactDays[log.PactId]
		if !ok {
			days = make(map[string]struct{})
			pactDays[log.PactId] = days
		}
		days[DayKey(log.OccurredAt, s.OffsetMinutes)] = struct{}{}
	}

	progress := make([]PactProgress, len(pacts))
	for i, pact := range pacts {
		progress[i] = PactProgress{
			PactId:       pact.Id,
			TargetDays:   pact.TargetDays(),
			ActivityDays: len(pactDays[pact.Id]),
		}
	}
	return progress, nil
}

type DayLogs struct {
	Date string
	Logs []ActivityLog
}

// LogsByDay groups the user's all-time entries in the pact by offset-local
// day, most recent day first.
func (s *LogService) LogsByDay(ctx context.Context, pactId int64,
	userId UserId) ([]DayLogs, error) {
	pact, err := s.Pacts.ById(ctx, pactId)
	if err != nil {
		return nil, err
	}
	if !pact.HasParticipant(userId) {
		return nil, ErrNotParticipant
	}

	logs, err := s.Logs.ByPactAndUser(ctx, pactId, userId)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}

	groups := make(map[string][]ActivityLog)
	for _, log := range logs {
		key := DayKey(log.OccurredAt, s.OffsetMinutes)
		groups[key] = append(groups[key], log)
	}
	days := make([]DayLogs, 0, len(groups))
	for date, dayLogs := range groups {
		days = append(days, DayLogs{Date: date, Logs: dayLogs})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

type LogDetail struct {
	Log   ActivityLog
	Date  string
	Media []Media
}

// LogDetail loads one entry together with the media uploaded for the same
// (pact, activity, user) within the entry's day window. The association is
// derived, not stored: two uploads for the same triple on the same day are
// indistinguishable by originating log.
func (s *LogService) LogDetail(ctx context.Context, logId int64) (LogDetail, error) {
	log, err := s.Logs.ById(ctx, logId)
	if err != nil {
		return LogDetail{}, err
	}
	dayStart, dayEnd := DayWindow(log.OccurredAt, s.OffsetMinutes)
	media, err := s.Media.ByOwnerInRange(ctx, log.PactId, log.ActivityId, log.UserId, dayStart, dayEnd)
	if err != nil {
		return LogDetail{}, fmt.Errorf("query media: %w", err)
	}
	return LogDetail{
		Log:   log,
		Date:  DayKey(log.OccurredAt, s.OffsetMinutes),
		Media: media,
	}, nil
}
