package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

// NotificationRepository собирает уведомления из appointments, events,
// announcements и messages. Отдельной таблицы уведомлений нет.
type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(b *base.Repository) *NotificationRepository {
	return &NotificationRepository{Repository: b}
}

// События пользователя $1 новее $2. Сообщения берутся в обе стороны,
// отсев отправленных делает сервис.
const recentEventsQuery = `
	SELECT 'appointment' AS type,
	       a.id AS related_id,
	       'Appointment ' || INITCAP(a.status) AS title,
	       'Appointment on ' || TO_CHAR(a.preferred_date, 'YYYY-MM-DD') || ' at ' || a.preferred_time || ' is ' || a.status AS message,
	       a.updated_at AS created_at
	FROM appointments a
	WHERE (a.student_id = $1 OR a.counselor_preference = $1)
	  AND a.updated_at > $2
	UNION ALL
	SELECT 'event', e.id, e.title, e.description, e.created_at
	FROM events e
	WHERE e.created_at > $2
	UNION ALL
	SELECT 'announcement', an.id, an.title, an.content, an.created_at
	FROM announcements an
	WHERE an.created_at > $2
	UNION ALL
	SELECT 'message', m.message_id, 'New Message', m.message_text, m.created_at
	FROM messages m
	WHERE (m.receiver_id = $1 OR m.sender_id = $1)
	  AND m.created_at > $2
`

// GetRecentEvents получает события пользователя новее since
func (r *NotificationRepository) GetRecentEvents(ctx context.Context, userID string, since time.Time) ([]model.RawNotification, error) {
	query := recentEventsQuery + ` ORDER BY created_at DESC`

	rows, err := r.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("get recent events: %w", err)
	}
	defer rows.Close()

	var events []model.RawNotification
	for rows.Next() {
		var (
			n   model.RawNotification
			typ string
		)
		if err := rows.Scan(&typ, &n.RelatedID, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}

		n.Type, err = model.ParseNotificationType(typ)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		events = append(events, n)
	}

	return events, rows.Err()
}

// GetUnreadCount считает события новее users.last_activity.
// Если last_activity пуст, граница - fallbackSince.
func (r *NotificationRepository) GetUnreadCount(ctx context.Context, userID string, fallbackSince time.Time) (int, error) {
	query := `
		WITH watermark AS (
			SELECT COALESCE(
				(SELECT last_activity FROM users WHERE user_id = $1),
				$2::timestamptz
			) AS since
		)
		SELECT
			(SELECT COUNT(*) FROM appointments a, watermark w
			  WHERE (a.student_id = $1 OR a.counselor_preference = $1) AND a.updated_at > w.since)
		  + (SELECT COUNT(*) FROM events e, watermark w WHERE e.created_at > w.since)
		  + (SELECT COUNT(*) FROM announcements an, watermark w WHERE an.created_at > w.since)
		  + (SELECT COUNT(*) FROM messages m, watermark w
			  WHERE (m.receiver_id = $1 OR m.sender_id = $1) AND m.created_at > w.since)
	`

	var count int
	if err := r.QueryRow(ctx, query, userID, fallbackSince).Scan(&count); err != nil {
		return 0, fmt.Errorf("get unread count: %w", err)
	}

	return count, nil
}
