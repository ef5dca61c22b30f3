package model

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает решения консультанта
	AppointmentStatusApproved  AppointmentStatus = "approved"  // Одобрено
	AppointmentStatusRejected  AppointmentStatus = "rejected"  // Отклонено
	AppointmentStatusCompleted AppointmentStatus = "completed" // Проведено
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменено
)

// AppointmentStatuses порядок статусов в отчётах
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusCompleted,
	AppointmentStatusApproved,
	AppointmentStatusRejected,
	AppointmentStatusPending,
	AppointmentStatusCancelled,
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	for _, st := range AppointmentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// IsTerminal completed, rejected и cancelled больше не меняются
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusRejected, AppointmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo допустимые переходы жизненного цикла
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusApproved || next == AppointmentStatusRejected || next == AppointmentStatusCancelled
	case AppointmentStatusApproved:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

type Appointment struct {
	ID                  int64             `json:"id"`
	StudentID           string            `json:"student_id"`
	PreferredDate       time.Time         `json:"preferred_date"`
	PreferredTime       string            `json:"preferred_time"`
	ConsultationType    string            `json:"consultation_type"`
	Purpose             string            `json:"purpose"`
	CounselorPreference *string           `json:"counselor_preference"` // свободный текст/ID, не внешний ключ
	Status              AppointmentStatus `json:"status"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`

	// Дополнительные поля из JOIN (не из таблицы appointments)
	StudentUsername *string `json:"username,omitempty"`
	StudentEmail    *string `json:"user_email,omitempty"`
	CourseYear      *string `json:"course_year,omitempty"`
	CounselorName   *string `json:"counselor_name,omitempty"`
}
