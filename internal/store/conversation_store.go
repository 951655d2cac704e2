package store

import (
	"context"
	"time"

	"tutorhub/internal/models"
)

type ConversationStore struct {
	db DB
}

func NewConversationStore(db DB) *ConversationStore {
	return &ConversationStore{db: db}
}

type ConversationSummary struct {
	ID              string     `db:"id"`
	TutorID         string     `db:"tutor_id"`
	TutorName       string     `db:"tutor_name"`
	TutorAvatar     *string    `db:"tutor_avatar"`
	LastMessage     *string    `db:"last_message"`
	LastMessageTime *time.Time `db:"last_message_time"`
	UnreadCount     int        `db:"unread_count"`
}

func (s *ConversationStore) ListByStudent(ctx context.Context, studentID string) ([]ConversationSummary, error) {
	var rows []ConversationSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id,
		       c.tutor_id,
		       u.name AS tutor_name,
		       u.avatar AS tutor_avatar,
		       (SELECT message_text FROM messages WHERE conversation_id = c.id ORDER BY created_at DESC LIMIT 1) AS last_message,
		       (SELECT created_at FROM messages WHERE conversation_id = c.id ORDER BY created_at DESC LIMIT 1) AS last_message_time,
		       (SELECT COUNT(*) FROM messages WHERE conversation_id = c.id AND is_read = FALSE AND sender_id <> $1) AS unread_count
		FROM conversations c
		JOIN tutors t ON c.tutor_id = t.id
		JOIN users u ON t.user_id = u.id
		WHERE c.student_id = $1
		ORDER BY c.last_message_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure returns the id of the student-tutor thread, creating it when
// absent. The no-op DO UPDATE makes RETURNING work on the conflict path.
func (s *ConversationStore) Ensure(ctx context.Context, id, studentID, tutorID string) (string, error) {
	var conversationID string
	err := s.db.GetContext(ctx, &conversationID, `
		INSERT INTO conversations (id, student_id, tutor_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, tutor_id)
		DO UPDATE SET student_id = EXCLUDED.student_id
		RETURNING id
	`, id, studentID, tutorID)
	return conversationID, err
}

func (s *ConversationStore) GetForStudent(ctx context.Context, conversationID, studentID string) (models.Conversation, error) {
	var row models.Conversation
	err := s.db.GetContext(ctx, &row, `
		SELECT id, student_id, tutor_id, last_message_at, created_at
		FROM conversations
		WHERE id = $1 AND student_id = $2
	`, conversationID, studentID)
	if err != nil {
		return models.Conversation{}, err
	}
	return row, nil
}

func (s *ConversationStore) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var rows []models.Message
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, conversation_id, sender_id, message_text, message_type, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ConversationStore) InsertMessage(ctx context.Context, tx Execer, id, conversationID, senderID, text, messageType string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, message_text, message_type)
		VALUES ($1, $2, $3, $4, $5)
	`, id, conversationID, senderID, text, messageType)
	return err
}

func (s *ConversationStore) Touch(ctx context.Context, tx Execer, conversationID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE conversations
		SET last_message_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}
