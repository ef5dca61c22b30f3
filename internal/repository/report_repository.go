package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

// ReportRepository агрегаты по appointments для отчётов администратора
type ReportRepository struct {
	*base.Repository
}

func NewReportRepository(b *base.Repository) *ReportRepository {
	return &ReportRepository{Repository: b}
}

// CountByDay количество записей по дате и статусу в диапазоне [from, to]
func (r *ReportRepository) CountByDay(ctx context.Context, from, to time.Time) ([]model.DatedStatusCount, error) {
	query := `
		SELECT preferred_date, status, COUNT(*)
		FROM appointments
		WHERE preferred_date BETWEEN $1 AND $2
		GROUP BY preferred_date, status
		ORDER BY preferred_date
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("count appointments by day: %w", err)
	}
	defer rows.Close()

	var counts []model.DatedStatusCount
	for rows.Next() {
		var (
			c      model.DatedStatusCount
			status string
		)
		if err := rows.Scan(&c.Date, &status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		if c.Status, err = model.ParseAppointmentStatus(status); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// CountByYear количество записей по году и статусу
func (r *ReportRepository) CountByYear(ctx context.Context, fromYear, toYear int) ([]model.YearStatusCount, error) {
	query := `
		SELECT EXTRACT(YEAR FROM preferred_date)::int AS year, status, COUNT(*)
		FROM appointments
		WHERE EXTRACT(YEAR FROM preferred_date) BETWEEN $1 AND $2
		GROUP BY year, status
		ORDER BY year
	`

	rows, err := r.Query(ctx, query, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("count appointments by year: %w", err)
	}
	defer rows.Close()

	var counts []model.YearStatusCount
	for rows.Next() {
		var (
			c      model.YearStatusCount
			status string
		)
		if err := rows.Scan(&c.Year, &status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan year count: %w", err)
		}
		if c.Status, err = model.ParseAppointmentStatus(status); err != nil {
			return nil, fmt.Errorf("scan year count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// TimesInRange время и статус всех записей в диапазоне дат
func (r *ReportRepository) TimesInRange(ctx context.Context, from, to time.Time) ([]model.TimedStatus, error) {
	query := `
		SELECT preferred_time, status
		FROM appointments
		WHERE preferred_date BETWEEN $1 AND $2
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get appointment times: %w", err)
	}
	defer rows.Close()

	var items []model.TimedStatus
	for rows.Next() {
		var (
			item   model.TimedStatus
			status string
		)
		if err := rows.Scan(&item.PreferredTime, &status); err != nil {
			return nil, fmt.Errorf("scan appointment time: %w", err)
		}
		if item.Status, err = model.ParseAppointmentStatus(status); err != nil {
			return nil, fmt.Errorf("scan appointment time: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
