package model

import "time"

type StudentAcademicInfo struct {
	ID             int64     `json:"id"`
	StudentID      string    `json:"student_id"`
	Course         string    `json:"course" validate:"required,max=50"`
	YearLevel      string    `json:"year_level" validate:"required,max=10"`
	AcademicStatus string    `json:"academic_status" validate:"required,max=50"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
