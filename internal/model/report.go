package model

import (
	"fmt"
	"time"
)

type ReportType string

const (
	ReportTypeDaily   ReportType = "daily"
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeMonthly ReportType = "monthly" // распределение по часам внутри месяца
	ReportTypeYearly  ReportType = "yearly"
)

// ParseReportType пустая строка - monthly
func ParseReportType(s string) (ReportType, error) {
	switch t := ReportType(s); t {
	case "":
		return ReportTypeMonthly, nil
	case ReportTypeDaily, ReportTypeWeekly, ReportTypeMonthly, ReportTypeYearly:
		return t, nil
	default:
		return "", fmt.Errorf("unknown report type %q", s)
	}
}

// StatusCounts количество записей по статусам
type StatusCounts map[AppointmentStatus]int

// Add увеличивает счётчик статуса
func (c StatusCounts) Add(status AppointmentStatus, n int) {
	c[status] += n
}

// ReportBucket одна точка графика
type ReportBucket struct {
	Label  string
	Counts StatusCounts
}

// AppointmentReport данные для графиков истории
type AppointmentReport struct {
	Labels    []string `json:"labels"`
	Completed []int    `json:"completed"`
	Approved  []int    `json:"approved"`
	Rejected  []int    `json:"rejected"`
	Pending   []int    `json:"pending"`
	Cancelled []int    `json:"cancelled"`

	TotalCompleted int `json:"total_completed"`
	TotalApproved  int `json:"total_approved"`
	TotalRejected  int `json:"total_rejected"`
	TotalPending   int `json:"total_pending"`
	TotalCancelled int `json:"total_cancelled"`
}

// NewAppointmentReport раскладывает корзины по сериям
func NewAppointmentReport(buckets []ReportBucket, totals StatusCounts) *AppointmentReport {
	r := &AppointmentReport{
		Labels:    make([]string, 0, len(buckets)),
		Completed: make([]int, 0, len(buckets)),
		Approved:  make([]int, 0, len(buckets)),
		Rejected:  make([]int, 0, len(buckets)),
		Pending:   make([]int, 0, len(buckets)),
		Cancelled: make([]int, 0, len(buckets)),
	}

	for _, b := range buckets {
		r.Labels = append(r.Labels, b.Label)
		r.Completed = append(r.Completed, b.Counts[AppointmentStatusCompleted])
		r.Approved = append(r.Approved, b.Counts[AppointmentStatusApproved])
		r.Rejected = append(r.Rejected, b.Counts[AppointmentStatusRejected])
		r.Pending = append(r.Pending, b.Counts[AppointmentStatusPending])
		r.Cancelled = append(r.Cancelled, b.Counts[AppointmentStatusCancelled])
	}

	r.TotalCompleted = totals[AppointmentStatusCompleted]
	r.TotalApproved = totals[AppointmentStatusApproved]
	r.TotalRejected = totals[AppointmentStatusRejected]
	r.TotalPending = totals[AppointmentStatusPending]
	r.TotalCancelled = totals[AppointmentStatusCancelled]

	return r
}

// DatedStatusCount количество записей статуса на дату
type DatedStatusCount struct {
	Date   time.Time
	Status AppointmentStatus
	Count  int
}

// YearStatusCount количество записей статуса за год
type YearStatusCount struct {
	Year   int
	Status AppointmentStatus
	Count  int
}

// TimedStatus время записи и её статус, для распределения по часам
type TimedStatus struct {
	PreferredTime string
	Status        AppointmentStatus
}
