package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

type CounselorRepository struct {
	*base.Repository
}

func NewCounselorRepository(b *base.Repository) *CounselorRepository {
	return &CounselorRepository{Repository: b}
}

const counselorColumns = `counselor_id, name, degree, email, contact_number, profile_picture`

// GetActive получает всех активных консультантов в порядке регистрации
func (r *CounselorRepository) GetActive(ctx context.Context) ([]*model.Counselor, error) {
	query := `
		SELECT ` + counselorColumns + `
		FROM counselors
		WHERE is_active = TRUE
		ORDER BY created_at, counselor_id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active counselors: %w", err)
	}
	defer rows.Close()

	var counselors []*model.Counselor
	for rows.Next() {
		c, err := scanCounselor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan counselor: %w", err)
		}
		counselors = append(counselors, c)
	}

	return counselors, rows.Err()
}

// GetActiveByID получает активного консультанта по ID, неактивный даёт nil
func (r *CounselorRepository) GetActiveByID(ctx context.Context, counselorID string) (*model.Counselor, error) {
	query := `
		SELECT ` + counselorColumns + `
		FROM counselors
		WHERE counselor_id = $1 AND is_active = TRUE
	`

	c, err := scanCounselor(r.QueryRow(ctx, query, counselorID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get counselor by id: %w", err)
	}

	return c, nil
}

func scanCounselor(row base.Scanner) (*model.Counselor, error) {
	var c model.Counselor
	err := row.Scan(
		&c.CounselorID,
		&c.Name,
		&c.Degree,
		&c.Email,
		&c.ContactNumber,
		&c.ProfilePicture,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
