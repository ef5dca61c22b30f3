package model

import "fmt"

type Role string

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// ParseRole разбирает роль, неизвестные значения отклоняются
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleCounselor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
