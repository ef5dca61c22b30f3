package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(b *base.Repository) *UserRepository {
	return &UserRepository{Repository: b}
}

const userColumns = `user_id, username, email, password_hash, role, last_activity, created_at`

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByLogin ищет пользователя по username или email
func (r *UserRepository) GetByLogin(ctx context.Context, identifier string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR LOWER(email) = LOWER($1) LIMIT 1`

	user, err := scanUser(r.QueryRow(ctx, query, identifier))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}

	return user, nil
}

// List получает всех пользователей
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateLastActivity сдвигает границу прочитанных уведомлений
func (r *UserRepository) UpdateLastActivity(ctx context.Context, userID string, at time.Time) error {
	affected, err := r.ExecAffected(ctx, `UPDATE users SET last_activity = $1 WHERE user_id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("update last activity: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update last activity: user %s not found", userID)
	}

	return nil
}

// UpdatePasswordHash сохраняет новый bcrypt-хеш
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	affected, err := r.ExecAffected(ctx, `UPDATE users SET password_hash = $1 WHERE user_id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update password hash: user %s not found", userID)
	}

	return nil
}

func scanUser(row base.Scanner) (*model.User, error) {
	var (
		user model.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.LastActivity,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role, err = model.ParseRole(role)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
