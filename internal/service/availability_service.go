package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/timeslot"
	"go.uber.org/zap"
)

type CounselorStore interface {
	GetActive(ctx context.Context) ([]*model.Counselor, error)
	GetActiveByID(ctx context.Context, counselorID string) (*model.Counselor, error)
}

type AvailabilityStore interface {
	GetGroupedByDay(ctx context.Context, counselorID string) (map[model.Weekday][]*model.Availability, error)
	GetByDay(ctx context.Context, counselorID string, day model.Weekday) ([]*model.Availability, error)
}

type AvailabilityService struct {
	counselors   CounselorStore
	availability AvailabilityStore
	logger       *zap.Logger
}

func NewAvailabilityService(counselors CounselorStore, availability AvailabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		counselors:   counselors,
		availability: availability,
		logger:       logger,
	}
}

// GetSchedulesByDay собирает расписание активных консультантов на Monday..Friday.
// Консультанты без строк на день пропускаются, внутри дня сортировка по имени.
func (s *AvailabilityService) GetSchedulesByDay(ctx context.Context) (*model.WeeklySchedule, error) {
	counselors, err := s.counselors.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active counselors: %w", err)
	}

	schedule := &model.WeeklySchedule{
		Schedules:       make(map[model.Weekday][]model.CounselorScheduleEntry, len(model.Weekdays)),
		TotalCounselors: len(counselors),
	}
	for _, day := range model.Weekdays {
		schedule.Schedules[day] = []model.CounselorScheduleEntry{}
	}

	for _, c := range counselors {
		grouped, err := s.availability.GetGroupedByDay(ctx, c.CounselorID)
		if err != nil {
			return nil, fmt.Errorf("get availability for %s: %w", c.CounselorID, err)
		}

		for _, day := range model.Weekdays {
			rows, ok := grouped[day]
			if !ok || len(rows) == 0 {
				continue
			}

			schedule.Schedules[day] = append(schedule.Schedules[day], model.CounselorScheduleEntry{
				CounselorID:    c.CounselorID,
				Name:           c.Name,
				Degree:         c.Degree,
				ProfilePicture: c.ProfilePicture,
				TimeSlots:      timeslot.NonEmpty(slotsOf(rows)),
				DisplayName:    c.DisplayName(),
			})
		}
	}

	for _, day := range model.Weekdays {
		entries := schedule.Schedules[day]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	}

	s.logger.Debug("Counselor schedules built",
		zap.Int("total_counselors", schedule.TotalCounselors),
	)

	return schedule, nil
}

// GetAvailableCounselors возвращает консультантов, у которых хотя бы один слот дня покрывает время.
// Параметры проверяются до обращения к хранилищу.
func (s *AvailabilityService) GetAvailableCounselors(ctx context.Context, day, requested string) (*model.AvailableCounselors, error) {
	if day == "" || requested == "" {
		return nil, ErrMissingParams
	}

	weekday, err := model.ParseWeekday(day)
	if err != nil {
		return nil, ErrInvalidDay
	}

	counselors, err := s.counselors.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active counselors: %w", err)
	}

	result := &model.AvailableCounselors{
		Counselors: []model.AvailableCounselor{},
		Day:        weekday,
		Time:       requested,
	}

	for _, c := range counselors {
		rows, err := s.availability.GetByDay(ctx, c.CounselorID, weekday)
		if err != nil {
			return nil, fmt.Errorf("get availability for %s: %w", c.CounselorID, err)
		}

		slots := slotsOf(rows)
		if !timeslot.AnyWithin(requested, slots) {
			continue
		}

		result.Counselors = append(result.Counselors, model.AvailableCounselor{
			CounselorID:    c.CounselorID,
			Name:           c.Name,
			Degree:         c.Degree,
			Email:          c.Email,
			ContactNumber:  c.ContactNumber,
			ProfilePicture: c.ProfilePicture,
			TimeSlots:      slots,
			DisplayName:    c.DisplayName(),
		})
	}

	sort.SliceStable(result.Counselors, func(i, j int) bool {
		return result.Counselors[i].Name < result.Counselors[j].Name
	})
	result.TotalAvailable = len(result.Counselors)

	return result, nil
}

// IsAvailable проверяет одного консультанта на день и время
func (s *AvailabilityService) IsAvailable(ctx context.Context, counselorID string, day model.Weekday, requested string) (bool, error) {
	counselor, err := s.counselors.GetActiveByID(ctx, counselorID)
	if err != nil {
		return false, fmt.Errorf("get counselor: %w", err)
	}
	if counselor == nil {
		return false, nil
	}

	rows, err := s.availability.GetByDay(ctx, counselorID, day)
	if err != nil {
		return false, fmt.Errorf("get availability: %w", err)
	}

	return timeslot.AnyWithin(requested, slotsOf(rows)), nil
}

func slotsOf(rows []*model.Availability) []string {
	slots := make([]string, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, r.Slot())
	}
	return slots
}
