package model

import (
	"time"
)

type BookStatus string

const (
	BookStatusAvailable BookStatus = "Available"
	BookStatusReserved  BookStatus = "Reserved"
)

func (s BookStatus) Valid() bool {
	return s == BookStatusAvailable || s == BookStatusReserved
}

type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "Pending"
	ExchangeStatusApproved ExchangeStatus = "Approved"
	ExchangeStatusRejected ExchangeStatus = "Rejected"
)

type Book struct {
	ID          int64      `json:"id" db:"book_id"`
	OwnerID     int64      `json:"owner_id" db:"owner_id"`
	Title       string     `json:"title" db:"title"`
	Author      string     `json:"author" db:"author"`
	Genre       string     `json:"genre" db:"genre"`
	Description string     `json:"description" db:"description"`
	Image       *string    `json:"image" db:"book_image"`
	Status      BookStatus `json:"status" db:"book_condition"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// BookDetail is a Book joined with its owner's display name.
type BookDetail struct {
	Book
	OwnerName string `json:"owner_name" db:"owner_name"`
}

type BookFilter struct {
	Search string
	Genre  string
}

type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Genre       string  `json:"genre" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"image"`
}

type SetBookStatusRequest struct {
	Status BookStatus `json:"status" validate:"required,oneof=Available Reserved"`
}

type Exchange struct {
	ID        int64          `json:"id" db:"id"`
	BookID    int64          `json:"book_id" db:"book_id"`
	OwnerID   int64          `json:"owner_id" db:"owner_id"`
	SeekerID  int64          `json:"seeker_id" db:"seeker_id"`
	Message   string         `json:"message" db:"message"`
	Status    ExchangeStatus `json:"status" db:"exchange_status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// ExchangeDetail is an Exchange enriched with book and participant info.
type ExchangeDetail struct {
	Exchange
	Title         string  `json:"title" db:"title"`
	Author        string  `json:"author" db:"author"`
	BookImage     *string `json:"book_image" db:"book_image"`
	RequesterName string  `json:"requester_name" db:"requester_name"`
	OwnerName     string  `json:"owner_name" db:"owner_name"`
}

type CreateExchangeRequest struct {
	BookID  int64  `json:"book_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type RespondExchangeRequest struct {
	Status ExchangeStatus `json:"status" validate:"required,oneof=Approved Rejected"`
}

type Message struct {
	ID         int64     `json:"id" db:"message_id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	BookID     int64     `json:"book_id" db:"book_id"`
	Content    string    `json:"content" db:"message_content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type SendMessageRequest struct {
	ExchangeID int64  `json:"exchange_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ExchangeEvent is the envelope published to the lifecycle event topic.
// Push delivery consumes it outside this service.
type ExchangeEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ExchangeID int64     `json:"exchange_id"`
	BookID     int64     `json:"book_id"`
	UserID     int64     `json:"user_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
