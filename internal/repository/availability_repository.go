package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(b *base.Repository) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: b}
}

// GetGroupedByDay получает слоты консультанта, сгруппированные по дням
func (r *AvailabilityRepository) GetGroupedByDay(ctx context.Context, counselorID string) (map[model.Weekday][]*model.Availability, error) {
	query := `
		SELECT id, counselor_id, available_days, time_scheduled
		FROM counselor_availability
		WHERE counselor_id = $1
		ORDER BY id
	`

	items, err := r.list(ctx, query, counselorID)
	if err != nil {
		return nil, fmt.Errorf("get availability grouped by day: %w", err)
	}

	grouped := make(map[model.Weekday][]*model.Availability)
	for _, a := range items {
		grouped[a.Day] = append(grouped[a.Day], a)
	}

	return grouped, nil
}

// GetByDay получает слоты консультанта на конкретный день
func (r *AvailabilityRepository) GetByDay(ctx context.Context, counselorID string, day model.Weekday) ([]*model.Availability, error) {
	query := `
		SELECT id, counselor_id, available_days, time_scheduled
		FROM counselor_availability
		WHERE counselor_id = $1 AND available_days = $2
		ORDER BY id
	`

	items, err := r.list(ctx, query, counselorID, string(day))
	if err != nil {
		return nil, fmt.Errorf("get availability by day: %w", err)
	}

	return items, nil
}

func (r *AvailabilityRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Availability, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.Availability
	for rows.Next() {
		var (
			a   model.Availability
			day string
		)
		if err := rows.Scan(&a.ID, &a.CounselorID, &day, &a.TimeScheduled); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}

		a.Day, err = model.ParseWeekday(day)
		if err != nil {
			return nil, fmt.Errorf("availability %d: %w", a.ID, err)
		}
		items = append(items, &a)
	}

	return items, rows.Err()
}
