package model

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeAppointment  NotificationType = "appointment"
	NotificationTypeEvent        NotificationType = "event"
	NotificationTypeAnnouncement NotificationType = "announcement"
	NotificationTypeMessage      NotificationType = "message"
)

func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(s); t {
	case NotificationTypeAppointment, NotificationTypeEvent, NotificationTypeAnnouncement, NotificationTypeMessage:
		return t, nil
	default:
		return "", fmt.Errorf("unknown notification type %q", s)
	}
}

// RawNotification событие из источника, без признака прочтения
type RawNotification struct {
	Type      NotificationType `json:"type"`
	RelatedID int64            `json:"related_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationEvent уведомление в ленте пользователя. Не хранится в БД.
type NotificationEvent struct {
	Type      NotificationType `json:"type"`
	RelatedID int64            `json:"related_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	IsRead    bool             `json:"is_read"`

	// Только для type = message
	CounselorID   *string `json:"counselor_id,omitempty"`
	CounselorName *string `json:"counselor_name,omitempty"`
}

type NotificationFeed struct {
	Notifications []NotificationEvent `json:"notifications"`
	UnreadCount   int                 `json:"unread_count"`
}
