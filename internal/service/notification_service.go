package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"go.uber.org/zap"
)

type NotificationStore interface {
	GetRecentEvents(ctx context.Context, userID string, since time.Time) ([]model.RawNotification, error)
	GetUnreadCount(ctx context.Context, userID string, fallbackSince time.Time) (int, error)
}

type MessageStore interface {
	GetReceivedByIDs(ctx context.Context, messageIDs []int64, receiverID string) ([]*model.ReceivedMessage, error)
}

type ActivityStore interface {
	UpdateLastActivity(ctx context.Context, userID string, at time.Time) error
}

// NotificationService собирает ленту уведомлений из appointments, events,
// announcements и messages. Прочитанность определяется только users.last_activity.
type NotificationService struct {
	notifications NotificationStore
	messages      MessageStore
	activity      ActivityStore
	fallback      time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

func NewNotificationService(
	notifications NotificationStore,
	messages MessageStore,
	activity ActivityStore,
	fallbackDays int,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		messages:      messages,
		activity:      activity,
		fallback:      time.Duration(fallbackDays) * 24 * time.Hour,
		now:           time.Now,
		logger:        logger,
	}
}

// GetFeed возвращает события новее водяного знака сессии и независимый счётчик непрочитанных.
// Счётчик может не совпадать с длиной ленты: отсеянные сообщения в нём остаются.
func (s *NotificationService) GetFeed(ctx context.Context, sess model.Session) (*model.NotificationFeed, error) {
	now := s.now()
	since := sess.Watermark(now, s.fallback)

	raw, err := s.notifications.GetRecentEvents(ctx, sess.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("get recent events: %w", err)
	}

	events := s.enrichMessages(ctx, sess.UserID, raw)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})

	unread, err := s.notifications.GetUnreadCount(ctx, sess.UserID, now.Add(-s.fallback))
	if err != nil {
		return nil, fmt.Errorf("get unread count: %w", err)
	}

	return &model.NotificationFeed{
		Notifications: events,
		UnreadCount:   unread,
	}, nil
}

// GetUnreadCount сырой счётчик без фильтрации по роли
func (s *NotificationService) GetUnreadCount(ctx context.Context, sess model.Session) (int, error) {
	count, err := s.notifications.GetUnreadCount(ctx, sess.UserID, s.now().Add(-s.fallback))
	if err != nil {
		return 0, fmt.Errorf("get unread count: %w", err)
	}
	return count, nil
}

// MarkRead сдвигает last_activity на текущий момент. Помечает прочитанным всё сразу.
func (s *NotificationService) MarkRead(ctx context.Context, sess model.Session) error {
	if err := s.activity.UpdateLastActivity(ctx, sess.UserID, s.now()); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}

	s.logger.Info("Notifications marked as read",
		zap.String("user_id", sess.UserID),
		zap.String("role", string(sess.Role)),
	)

	return nil
}

// ForRole применяет политику отображения роли.
// Студент не видит сообщения ни в списке, ни в счётчике.
func ForRole(role model.Role, feed *model.NotificationFeed) *model.NotificationFeed {
	if role != model.RoleStudent {
		return feed
	}

	filtered := make([]model.NotificationEvent, 0, len(feed.Notifications))
	for _, n := range feed.Notifications {
		if n.Type == model.NotificationTypeMessage {
			continue
		}
		filtered = append(filtered, n)
	}

	return &model.NotificationFeed{
		Notifications: filtered,
		UnreadCount:   len(filtered),
	}
}

// enrichMessages оставляет только полученные пользователем сообщения и подписывает их
// именем отправителя. При ошибке загрузки возвращает исходные записи как есть.
func (s *NotificationService) enrichMessages(ctx context.Context, userID string, raw []model.RawNotification) []model.NotificationEvent {
	var ids []int64
	for _, n := range raw {
		if n.Type == model.NotificationTypeMessage {
			ids = append(ids, n.RelatedID)
		}
	}

	if len(ids) == 0 {
		return toEvents(raw)
	}

	received, err := s.messages.GetReceivedByIDs(ctx, ids, userID)
	if err != nil {
		s.logger.Warn("Message enrichment failed, returning unenriched feed",
			zap.String("user_id", userID),
			zap.Int("message_count", len(ids)),
			zap.Error(err),
		)
		return toEvents(raw)
	}

	byID := make(map[int64]*model.ReceivedMessage, len(received))
	for _, m := range received {
		byID[m.MessageID] = m
	}

	events := make([]model.NotificationEvent, 0, len(raw))
	for _, n := range raw {
		event := toEvent(n)

		if n.Type == model.NotificationTypeMessage {
			m, ok := byID[n.RelatedID]
			if !ok {
				// Отправленное самим пользователем или неизвестное
				continue
			}

			name := m.DisplayName()
			senderID := m.SenderID
			event.Title = "New Message from Counselor " + name
			event.CounselorID = &senderID
			event.CounselorName = &name
		}

		events = append(events, event)
	}

	return events
}

func toEvents(raw []model.RawNotification) []model.NotificationEvent {
	events := make([]model.NotificationEvent, 0, len(raw))
	for _, n := range raw {
		events = append(events, toEvent(n))
	}
	return events
}

// Все записи источника новее водяного знака, поэтому непрочитанные
func toEvent(n model.RawNotification) model.NotificationEvent {
	return model.NotificationEvent{
		Type:      n.Type,
		RelatedID: n.RelatedID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
		IsRead:    false,
	}
}
