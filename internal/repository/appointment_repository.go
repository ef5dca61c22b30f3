package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(b *base.Repository) *AppointmentRepository {
	return &AppointmentRepository{Repository: b}
}

const appointmentColumns = `a.id, a.student_id, a.preferred_date, a.preferred_time, a.consultation_type,
	a.purpose, a.counselor_preference, a.status, a.created_at, a.updated_at`

// Create создаёт новую запись на консультацию
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (student_id, preferred_date, preferred_time, consultation_type, purpose, counselor_preference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		a.StudentID,
		a.PreferredDate,
		a.PreferredTime,
		a.ConsultationType,
		a.Purpose,
		a.CounselorPreference,
		string(a.Status),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = $1`

	a, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// GetRecentPendingForCounselor последние pending записи, где counselor_preference совпадает с консультантом
func (r *AppointmentRepository) GetRecentPendingForCounselor(ctx context.Context, counselorID string, limit int) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `,
		       u.username, u.email, sai.course || ' - ' || sai.year_level
		FROM appointments a
		LEFT JOIN users u ON a.student_id = u.user_id
		LEFT JOIN student_academic_info sai ON sai.student_id = u.user_id
		WHERE a.status = 'pending'
		  AND a.counselor_preference = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`

	return r.listWithStudent(ctx, query, counselorID, limit)
}

// GetByCounselor все записи консультанта, status = nil - без фильтра
func (r *AppointmentRepository) GetByCounselor(ctx context.Context, counselorID string, status *model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `,
		       u.username, u.email, sai.course || ' - ' || sai.year_level
		FROM appointments a
		LEFT JOIN users u ON a.student_id = u.user_id
		LEFT JOIN student_academic_info sai ON sai.student_id = u.user_id
		WHERE a.counselor_preference = $1
		  AND ($2::text IS NULL OR a.status = $2)
		ORDER BY a.created_at DESC
	`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	return r.listWithStudent(ctx, query, counselorID, statusArg)
}

// GetByStudentID все записи студента
func (r *AppointmentRepository) GetByStudentID(ctx context.Context, studentID string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `, c.name
		FROM appointments a
		LEFT JOIN counselors c ON c.counselor_id = a.counselor_preference
		WHERE a.student_id = $1
		ORDER BY a.created_at DESC
	`

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by student: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var counselorName *string
		a, err := scanAppointment(rows, &counselorName)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.CounselorName = counselorName
		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}

// GetCompletedHistory завершённые записи с именами студента и консультанта
func (r *AppointmentRepository) GetCompletedHistory(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `, u.username, u.email, c.name
		FROM appointments a
		JOIN users u ON u.user_id = a.student_id
		LEFT JOIN counselors c ON c.counselor_id = a.counselor_preference
		WHERE a.status = 'completed'
		ORDER BY a.created_at DESC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get completed history: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var username, email, counselorName *string
		a, err := scanAppointment(rows, &username, &email, &counselorName)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.StudentUsername = username
		a.StudentEmail = email
		a.CounselorName = counselorName
		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}

// UpdateStatus переводит запись в новый статус только из ожидаемого текущего.
// false - статус уже изменён другим запросом.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	affected, err := r.ExecAffected(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}

	return affected > 0, nil
}

func (r *AppointmentRepository) listWithStudent(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get counselor appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var username, email, courseYear *string
		a, err := scanAppointment(rows, &username, &email, &courseYear)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.StudentUsername = username
		a.StudentEmail = email
		a.CourseYear = courseYear
		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}

// scanAppointment сканирует базовые колонки и дополнительные поля из JOIN
func scanAppointment(row base.Scanner, extra ...interface{}) (*model.Appointment, error) {
	var (
		a      model.Appointment
		status string
	)

	dest := []interface{}{
		&a.ID,
		&a.StudentID,
		&a.PreferredDate,
		&a.PreferredTime,
		&a.ConsultationType,
		&a.Purpose,
		&a.CounselorPreference,
		&status,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	a.Status, err = model.ParseAppointmentStatus(status)
	if err != nil {
		return nil, err
	}

	return &a, nil
}
