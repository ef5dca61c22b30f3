package model

import "time"

// Session контекст текущего запроса. Передаётся в сервисы явно.
type Session struct {
	UserID       string     `json:"user_id"`
	Role         Role       `json:"role"`
	LastActivity *time.Time `json:"last_activity"` // nil - пользователь ещё ни разу не отмечал прочитанное
}

// Watermark возвращает границу "прочитанного": last_activity или now - fallback
func (s Session) Watermark(now time.Time, fallback time.Duration) time.Time {
	if s.LastActivity != nil {
		return *s.LastActivity
	}
	return now.Add(-fallback)
}
