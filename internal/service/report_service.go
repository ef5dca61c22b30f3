package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/timeslot"
	"go.uber.org/zap"
)

// yearlySpan сколько лет охватывает годовой отчёт, включая выбранный
const yearlySpan = 3

type ReportStore interface {
	CountByDay(ctx context.Context, from, to time.Time) ([]model.DatedStatusCount, error)
	CountByYear(ctx context.Context, fromYear, toYear int) ([]model.YearStatusCount, error)
	TimesInRange(ctx context.Context, from, to time.Time) ([]model.TimedStatus, error)
}

type ReportService struct {
	reports ReportStore
	now     func() time.Time
	logger  *zap.Logger
}

func NewReportService(reports ReportStore, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		now:     time.Now,
		logger:  logger,
	}
}

// Generate строит статистику записей по статусам.
// month в формате YYYY-MM, пустой - текущий месяц. Итоги всегда считаются за месяц.
func (s *ReportService) Generate(ctx context.Context, month, reportType string) (*model.AppointmentReport, error) {
	typ, err := model.ParseReportType(reportType)
	if err != nil {
		return nil, ErrInvalidReportType
	}

	first, err := s.monthStart(month)
	if err != nil {
		return nil, err
	}
	last := first.AddDate(0, 1, -1)

	monthCounts, err := s.reports.CountByDay(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("count month appointments: %w", err)
	}

	totals := model.StatusCounts{}
	for _, c := range monthCounts {
		totals.Add(c.Status, c.Count)
	}

	var buckets []model.ReportBucket
	switch typ {
	case model.ReportTypeDaily:
		buckets = dailyBuckets(monthCounts)
	case model.ReportTypeWeekly:
		buckets, err = s.weeklyBuckets(ctx, first, last)
	case model.ReportTypeYearly:
		buckets, err = s.yearlyBuckets(ctx, first.Year())
	default:
		buckets, err = s.hourlyBuckets(ctx, first, last)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Report generated",
		zap.String("month", first.Format("2006-01")),
		zap.String("type", string(typ)),
		zap.Int("buckets", len(buckets)),
	)

	return model.NewAppointmentReport(buckets, totals), nil
}

func (s *ReportService) monthStart(month string) (time.Time, error) {
	if month == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// dailyBuckets одна корзина на каждый день с записями, метка - число месяца
func dailyBuckets(counts []model.DatedStatusCount) []model.ReportBucket {
	var buckets []model.ReportBucket
	index := map[string]int{}

	for _, c := range counts {
		key := c.Date.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, model.ReportBucket{
				Label:  strconv.Itoa(c.Date.Day()),
				Counts: model.StatusCounts{},
			})
		}
		buckets[i].Counts.Add(c.Status, c.Count)
	}

	return buckets
}

// weeklyBuckets недели с понедельника по воскресенье, покрывающие весь месяц.
// Пустые недели тоже попадают в отчёт.
func (s *ReportService) weeklyBuckets(ctx context.Context, first, last time.Time) ([]model.ReportBucket, error) {
	start := first.AddDate(0, 0, -isoWeekdayOffset(first))
	end := last.AddDate(0, 0, 6-isoWeekdayOffset(last))

	counts, err := s.reports.CountByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("count weekly appointments: %w", err)
	}

	var buckets []model.ReportBucket
	for ws, n := start, 1; !ws.After(end); ws, n = ws.AddDate(0, 0, 7), n+1 {
		we := ws.AddDate(0, 0, 6)
		buckets = append(buckets, model.ReportBucket{
			Label:  fmt.Sprintf("Week %d (%s-%d)", n, ws.Format("Jan 2"), we.Day()),
			Counts: model.StatusCounts{},
		})
	}

	for _, c := range counts {
		d := time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, time.UTC)
		i := int(d.Sub(start).Hours()/24) / 7
		if i < 0 || i >= len(buckets) {
			continue
		}
		buckets[i].Counts.Add(c.Status, c.Count)
	}

	return buckets, nil
}

// yearlyBuckets выбранный год и два предыдущих, только годы с записями
func (s *ReportService) yearlyBuckets(ctx context.Context, year int) ([]model.ReportBucket, error) {
	counts, err := s.reports.CountByYear(ctx, year-yearlySpan+1, year)
	if err != nil {
		return nil, fmt.Errorf("count yearly appointments: %w", err)
	}

	var buckets []model.ReportBucket
	index := map[int]int{}
	for _, c := range counts {
		i, ok := index[c.Year]
		if !ok {
			i = len(buckets)
			index[c.Year] = i
			buckets = append(buckets, model.ReportBucket{
				Label:  strconv.Itoa(c.Year),
				Counts: model.StatusCounts{},
			})
		}
		buckets[i].Counts.Add(c.Status, c.Count)
	}

	return buckets, nil
}

// hourlyBuckets распределение записей месяца по часу preferred_time.
// Неразбираемое время пропускается.
func (s *ReportService) hourlyBuckets(ctx context.Context, first, last time.Time) ([]model.ReportBucket, error) {
	items, err := s.reports.TimesInRange(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("get appointment times: %w", err)
	}

	byHour := map[int]model.StatusCounts{}
	for _, item := range items {
		hour, ok := timeslot.HourOf(item.PreferredTime)
		if !ok {
			continue
		}
		if byHour[hour] == nil {
			byHour[hour] = model.StatusCounts{}
		}
		byHour[hour].Add(item.Status, 1)
	}

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	buckets := make([]model.ReportBucket, 0, len(hours))
	for _, h := range hours {
		buckets = append(buckets, model.ReportBucket{
			Label:  fmt.Sprintf("%02d:00", h),
			Counts: byHour[h],
		})
	}

	return buckets, nil
}

// isoWeekdayOffset дней от понедельника: Monday=0 .. Sunday=6
func isoWeekdayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
