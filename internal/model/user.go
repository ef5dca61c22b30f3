package model

import "time"

type User struct {
	ID           string     `json:"user_id"` // номер студента/сотрудника, например "2023303610"
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	LastActivity *time.Time `json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
}
