package models

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Avatar       *string   `db:"avatar" json:"avatar,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Bio          *string   `db:"bio" json:"bio,omitempty"`
	Gender       *string   `db:"gender" json:"gender,omitempty"`
	Role         string    `db:"role" json:"role"`
	Balance      int64     `db:"balance" json:"balance"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Tutor struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	PricePerHour int64     `db:"price_per_hour" json:"price_per_hour"`
	Rating       string    `db:"rating" json:"rating"`
	ReviewCount  int       `db:"review_count" json:"review_count"`
	Verified     bool      `db:"verified" json:"verified"`
	Subject      *string   `db:"subject" json:"subject,omitempty"`
	Bio          *string   `db:"bio" json:"bio,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Booking status values: pending, approved, completed, canceled.
// Payment status values: unpaid, paid.
type Booking struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	TutorID       string    `db:"tutor_id" json:"tutor_id"`
	Subject       string    `db:"subject" json:"subject"`
	Status        string    `db:"status" json:"status"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	Amount        int64     `db:"amount" json:"amount"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	Type          string    `db:"type" json:"type"`
	Address       *string   `db:"address" json:"address,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AccountLogEntry is append-only; rows are never updated or deleted.
type AccountLogEntry struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	ChangeAmount  int64     `db:"change_amount" json:"change_amount"`
	BeforeBalance int64     `db:"before_balance" json:"before_balance"`
	AfterBalance  int64     `db:"after_balance" json:"after_balance"`
	BizType       string    `db:"biz_type" json:"biz_type"`
	BizID         string    `db:"biz_id" json:"biz_id"`
	Remark        string    `db:"remark" json:"remark"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Conversation struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	TutorID       string    `db:"tutor_id" json:"tutor_id"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	MessageText    string    `db:"message_text" json:"text"`
	MessageType    string    `db:"message_type" json:"type"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Favorite struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	TutorID   string    `db:"tutor_id" json:"tutor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Review struct {
	ID        string    `db:"id" json:"id"`
	TutorID   string    `db:"tutor_id" json:"tutor_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Rating    string    `db:"rating" json:"rating"`
	Content   *string   `db:"content" json:"content,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Certification struct {
	ID      string  `db:"id" json:"id"`
	TutorID string  `db:"tutor_id" json:"tutor_id"`
	Title   string  `db:"title" json:"title"`
	Issuer  string  `db:"issuer" json:"issuer"`
	Icon    *string `db:"icon" json:"icon,omitempty"`
}
