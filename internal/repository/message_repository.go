package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
)

type MessageRepository struct {
	*base.Repository
}

func NewMessageRepository(b *base.Repository) *MessageRepository {
	return &MessageRepository{Repository: b}
}

// GetReceivedByIDs получает сообщения из списка, полученные receiverID.
// Отправленные самим пользователем сообщения не возвращаются.
func (r *MessageRepository) GetReceivedByIDs(ctx context.Context, messageIDs []int64, receiverID string) ([]*model.ReceivedMessage, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT m.message_id, m.sender_id, c.name, u.username
		FROM messages m
		LEFT JOIN users u ON u.user_id = m.sender_id
		LEFT JOIN counselors c ON c.counselor_id = m.sender_id
		WHERE m.message_id = ANY($1)
		  AND m.receiver_id = $2
	`

	rows, err := r.Query(ctx, query, messageIDs, receiverID)
	if err != nil {
		return nil, fmt.Errorf("get received messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ReceivedMessage
	for rows.Next() {
		var m model.ReceivedMessage
		if err := rows.Scan(&m.MessageID, &m.SenderID, &m.CounselorName, &m.SenderUsername); err != nil {
			return nil, fmt.Errorf("scan received message: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}
