package model

// ReceivedMessage сообщение, полученное пользователем, с данными отправителя
type ReceivedMessage struct {
	MessageID      int64   `json:"message_id"`
	SenderID       string  `json:"sender_id"`
	CounselorName  *string `json:"counselor_name"`
	SenderUsername *string `json:"username"`
}

// DisplayName имя консультанта, иначе username, иначе "Counselor"
func (m *ReceivedMessage) DisplayName() string {
	if m.CounselorName != nil && *m.CounselorName != "" {
		return *m.CounselorName
	}
	if m.SenderUsername != nil && *m.SenderUsername != "" {
		return *m.SenderUsername
	}
	return "Counselor"
}
