package handlers

import (
	"context"

	"tutorhub/internal/models"
	"tutorhub/internal/services"
	"tutorhub/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, name, email, passwordHash, role string, balance int64) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
}

type TutorStore interface {
	List(ctx context.Context, filter store.TutorFilter) ([]store.TutorWithUser, error)
	GetByID(ctx context.Context, tutorID string) (store.TutorWithUser, error)
	Tags(ctx context.Context, tutorID string) ([]string, error)
	Certifications(ctx context.Context, tutorID string) ([]models.Certification, error)
	Reviews(ctx context.Context, tutorID string) ([]store.ReviewWithAuthor, error)
}

type BookingStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]store.BookingWithTutor, error)
}

type AccountLogStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.AccountLogInput) error
	ListByUser(ctx context.Context, userID string) ([]models.AccountLogEntry, error)
}

type ConversationStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]store.ConversationSummary, error)
	Ensure(ctx context.Context, id, studentID, tutorID string) (string, error)
	GetForStudent(ctx context.Context, conversationID, studentID string) (models.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]models.Message, error)
	InsertMessage(ctx context.Context, tx store.Execer, id, conversationID, senderID, text, messageType string) error
	Touch(ctx context.Context, tx store.Execer, conversationID string) error
}

type FavoriteStore interface {
	ListByUser(ctx context.Context, userID string) ([]store.TutorWithUser, error)
	Add(ctx context.Context, id, userID, tutorID string) error
	Remove(ctx context.Context, userID, tutorID string) (int64, error)
}

type BookingService interface {
	Create(ctx context.Context, req services.CreateBookingRequest) (string, error)
	Cancel(ctx context.Context, studentID, bookingID string) error
	Pay(ctx context.Context, studentID, bookingID string) (int64, error)
}
