package handler

import (
	"context"

	"github.com/bookbridge/exchange-service/internal/model"
	"github.com/bookbridge/exchange-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	CreateBook(ctx context.Context, ownerID int64, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID int64) (model.BookDetail, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookDetail, error)
	MyBooks(ctx context.Context, ownerID int64) ([]model.Book, error)
	UpdateBook(ctx context.Context, bookID, callerID int64, req model.CreateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID, callerID int64) error
	SetBookStatus(ctx context.Context, bookID, callerID int64, status model.BookStatus) error
}

type ExchangeService interface {
	CreateExchange(ctx context.Context, seekerID int64, req model.CreateExchangeRequest) (model.ExchangeDetail, error)
	RespondExchange(ctx context.Context, exchangeID, callerID int64, decision model.ExchangeStatus) (model.ExchangeDetail, error)
	CancelExchange(ctx context.Context, exchangeID, callerID int64) error
	ListExchanges(ctx context.Context, userID int64) ([]model.ExchangeDetail, error)
	GetExchange(ctx context.Context, exchangeID, userID int64) (model.ExchangeDetail, error)
}

type MessageService interface {
	SendMessage(ctx context.Context, senderID int64, req model.SendMessageRequest) (model.Message, error)
	ListMessages(ctx context.Context, exchangeID, callerID int64) ([]model.Message, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID int64) error
}

var (
	_ BookService         = (*service.Service)(nil)
	_ ExchangeService     = (*service.Service)(nil)
	_ MessageService      = (*service.Service)(nil)
	_ NotificationService = (*service.Service)(nil)
)
