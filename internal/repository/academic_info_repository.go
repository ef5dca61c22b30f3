package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

type AcademicInfoRepository struct {
	*base.Repository
}

func NewAcademicInfoRepository(b *base.Repository) *AcademicInfoRepository {
	return &AcademicInfoRepository{Repository: b}
}

// GetByStudentID получает академическую информацию студента
func (r *AcademicInfoRepository) GetByStudentID(ctx context.Context, studentID string) (*model.StudentAcademicInfo, error) {
	query := `
		SELECT id, student_id, course, year_level, academic_status, created_at, updated_at
		FROM student_academic_info
		WHERE student_id = $1
	`

	var info model.StudentAcademicInfo
	err := r.QueryRow(ctx, query, studentID).Scan(
		&info.ID,
		&info.StudentID,
		&info.Course,
		&info.YearLevel,
		&info.AcademicStatus,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get academic info: %w", err)
	}

	return &info, nil
}

// Upsert создаёт или обновляет запись студента
func (r *AcademicInfoRepository) Upsert(ctx context.Context, info *model.StudentAcademicInfo) error {
	query := `
		INSERT INTO student_academic_info (student_id, course, year_level, academic_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id) DO UPDATE
		SET course = EXCLUDED.course,
		    year_level = EXCLUDED.year_level,
		    academic_status = EXCLUDED.academic_status,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		info.StudentID,
		info.Course,
		info.YearLevel,
		info.AcademicStatus,
	).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert academic info: %w", err)
	}

	return nil
}
