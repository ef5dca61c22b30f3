package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"go.uber.org/zap"
)

// RecentPendingLimit сколько ожидающих записей показывать на дашборде консультанта
const RecentPendingLimit = 2

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	GetRecentPendingForCounselor(ctx context.Context, counselorID string, limit int) ([]*model.Appointment, error)
	GetByCounselor(ctx context.Context, counselorID string, status *model.AppointmentStatus) ([]*model.Appointment, error)
	GetByStudentID(ctx context.Context, studentID string) ([]*model.Appointment, error)
	GetCompletedHistory(ctx context.Context) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus) (bool, error)
}

type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, counselorID string, day model.Weekday, requested string) (bool, error)
}

// BookingRequest запрос студента на консультацию
type BookingRequest struct {
	PreferredDate       string `json:"preferred_date" validate:"required"`
	PreferredTime       string `json:"preferred_time" validate:"required,max=32"`
	ConsultationType    string `json:"consultation_type" validate:"required,max=64"`
	Purpose             string `json:"purpose" validate:"required,max=2000"`
	CounselorPreference string `json:"counselor_preference" validate:"max=64"`
}

type AppointmentService struct {
	appointments AppointmentStore
	availability AvailabilityChecker
	logger       *zap.Logger
}

func NewAppointmentService(appointments AppointmentStore, availability AvailabilityChecker, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		availability: availability,
		logger:       logger,
	}
}

// Book создаёт запись в статусе pending.
// Дата должна быть рабочим днём, выбранный консультант - доступен в это время.
func (s *AppointmentService) Book(ctx context.Context, sess model.Session, req BookingRequest) (*model.Appointment, error) {
	req.PreferredTime = strings.TrimSpace(req.PreferredTime)
	req.CounselorPreference = strings.TrimSpace(req.CounselorPreference)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	day, ok := model.WeekdayOf(date)
	if !ok {
		return nil, ErrWeekendDate
	}

	var preference *string
	if req.CounselorPreference != "" {
		available, err := s.availability.IsAvailable(ctx, req.CounselorPreference, day, req.PreferredTime)
		if err != nil {
			return nil, fmt.Errorf("check counselor availability: %w", err)
		}
		if !available {
			return nil, ErrCounselorUnavailable
		}
		preference = &req.CounselorPreference
	}

	appointment := &model.Appointment{
		StudentID:           sess.UserID,
		PreferredDate:       date,
		PreferredTime:       req.PreferredTime,
		ConsultationType:    req.ConsultationType,
		Purpose:             req.Purpose,
		CounselorPreference: preference,
		Status:              model.AppointmentStatusPending,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", appointment.ID),
		zap.String("student_id", sess.UserID),
		zap.String("day", string(day)),
		zap.String("time", appointment.PreferredTime),
	)

	return appointment, nil
}

// ListForStudent записи текущего студента
func (s *AppointmentService) ListForStudent(ctx context.Context, sess model.Session) ([]*model.Appointment, error) {
	appointments, err := s.appointments.GetByStudentID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("get student appointments: %w", err)
	}
	return appointments, nil
}

// RecentPending последние ожидающие записи к консультанту
func (s *AppointmentService) RecentPending(ctx context.Context, sess model.Session) ([]*model.Appointment, error) {
	appointments, err := s.appointments.GetRecentPendingForCounselor(ctx, sess.UserID, RecentPendingLimit)
	if err != nil {
		return nil, fmt.Errorf("get recent pending: %w", err)
	}
	return appointments, nil
}

// ListForCounselor записи консультанта, statusFilter пустой - без фильтра
func (s *AppointmentService) ListForCounselor(ctx context.Context, sess model.Session, statusFilter string) ([]*model.Appointment, error) {
	var status *model.AppointmentStatus
	if statusFilter != "" {
		st, err := model.ParseAppointmentStatus(statusFilter)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		status = &st
	}

	appointments, err := s.appointments.GetByCounselor(ctx, sess.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("get counselor appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus переводит запись консультанта в новый статус
func (s *AppointmentService) UpdateStatus(ctx context.Context, sess model.Session, id int64, next string) (*model.Appointment, error) {
	status, err := model.ParseAppointmentStatus(next)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if sess.Role != model.RoleAdmin {
		if appointment.CounselorPreference == nil || *appointment.CounselorPreference != sess.UserID {
			return nil, ErrForbidden
		}
	}

	if !appointment.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, status)
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, appointment.Status, status)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("%w: appointment %d is no longer %s", ErrStatusConflict, id, appointment.Status)
	}

	s.logger.Info("Appointment status changed",
		zap.Int64("appointment_id", id),
		zap.String("from", string(appointment.Status)),
		zap.String("to", string(status)),
		zap.String("by", sess.UserID),
	)

	appointment.Status = status
	return appointment, nil
}

// History завершённые консультации для администратора
func (s *AppointmentService) History(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.appointments.GetCompletedHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return appointments, nil
}
