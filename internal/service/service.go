package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/errs"
	"github.com/bookbridge/exchange-service/internal/model"
	"github.com/bookbridge/exchange-service/internal/repository"
	"github.com/bookbridge/exchange-service/pkg/kafka"
)

const (
	eventExchangeRequested = "exchange.requested"
	eventExchangeApproved  = "exchange.approved"
	eventExchangeRejected  = "exchange.rejected"
)

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	queue Enqueuer
}

func NewService(repo repository.Repository, queue Enqueuer, log *zap.Logger) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		queue: queue,
	}
}

// Books

func (s *Service) CreateBook(ctx context.Context, ownerID int64, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, ownerID, req)
}

func (s *Service) GetBook(ctx context.Context, bookID int64) (model.BookDetail, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookDetail, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) MyBooks(ctx context.Context, ownerID int64) ([]model.Book, error) {
	return s.repo.BooksByOwner(ctx, ownerID)
}

func (s *Service) UpdateBook(ctx context.Context, bookID, callerID int64, req model.CreateBookRequest) (model.Book, error) {
	if err := s.checkBookOwner(ctx, bookID, callerID); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, bookID, req)
}

func (s *Service) DeleteBook(ctx context.Context, bookID, callerID int64) error {
	if err := s.checkBookOwner(ctx, bookID, callerID); err != nil {
		return err
	}
	active, err := s.repo.HasActiveExchange(ctx, bookID)
	if err != nil {
		return err
	}
	if active {
		return errors.Wrap(errs.ErrConflict, "book has an active exchange request")
	}
	return s.repo.DeleteBook(ctx, bookID)
}

// SetBookStatus is the owner's manual availability toggle. The status value
// is validated against the enum upstream; nothing is inferred from the
// current value.
func (s *Service) SetBookStatus(ctx context.Context, bookID, callerID int64, status model.BookStatus) error {
	if err := s.checkBookOwner(ctx, bookID, callerID); err != nil {
		return err
	}
	return s.repo.SetBookStatus(ctx, bookID, status)
}

func (s *Service) checkBookOwner(ctx context.Context, bookID, callerID int64) error {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerID != callerID {
		return errors.Wrap(errs.ErrPermissionDenied, "not the book owner")
	}
	return nil
}

// Exchanges

func (s *Service) CreateExchange(ctx context.Context, seekerID int64, req model.CreateExchangeRequest) (model.ExchangeDetail, error) {
	ex, err := s.repo.CreateExchange(ctx, seekerID, req)
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	text := fmt.Sprintf("Your book %q has been requested by %s.", ex.Title, ex.RequesterName)
	s.notify(ctx, ex.OwnerID, text, eventExchangeRequested, ex)
	return ex, nil
}

func (s *Service) RespondExchange(ctx context.Context, exchangeID, callerID int64, decision model.ExchangeStatus) (model.ExchangeDetail, error) {
	ex, err := s.repo.RespondExchange(ctx, exchangeID, callerID, decision)
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	var text string
	eventType := eventExchangeRejected
	if decision == model.ExchangeStatusApproved {
		text = fmt.Sprintf("Your exchange request for %q was approved!", ex.Title)
		eventType = eventExchangeApproved
	} else {
		text = fmt.Sprintf("Your exchange request for %q was rejected.", ex.Title)
	}
	s.notify(ctx, ex.SeekerID, text, eventType, ex)
	return ex, nil
}

func (s *Service) CancelExchange(ctx context.Context, exchangeID, callerID int64) error {
	return s.repo.CancelExchange(ctx, exchangeID, callerID)
}

func (s *Service) ListExchanges(ctx context.Context, userID int64) ([]model.ExchangeDetail, error) {
	return s.repo.ListExchanges(ctx, userID)
}

func (s *Service) GetExchange(ctx context.Context, exchangeID, userID int64) (model.ExchangeDetail, error) {
	ex, err := s.repo.GetExchange(ctx, exchangeID)
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	if ex.OwnerID != userID && ex.SeekerID != userID {
		return model.ExchangeDetail{}, errors.Wrap(errs.ErrPermissionDenied, "not authorized to view this exchange")
	}
	return ex, nil
}

// Messages

func (s *Service) SendMessage(ctx context.Context, senderID int64, req model.SendMessageRequest) (model.Message, error) {
	ex, err := s.repo.GetExchange(ctx, req.ExchangeID)
	if err != nil {
		return model.Message{}, err
	}
	if ex.OwnerID != senderID && ex.SeekerID != senderID {
		return model.Message{}, errors.Wrap(errs.ErrPermissionDenied, "not authorized to send messages in this exchange")
	}
	receiverID := ex.OwnerID
	if senderID == ex.OwnerID {
		receiverID = ex.SeekerID
	}
	return s.repo.CreateMessage(ctx, senderID, receiverID, ex.BookID, req.Message)
}

func (s *Service) ListMessages(ctx context.Context, exchangeID, callerID int64) ([]model.Message, error) {
	ex, err := s.repo.GetExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex.OwnerID != callerID && ex.SeekerID != callerID {
		return nil, errors.Wrap(errs.ErrPermissionDenied, "not authorized to view these messages")
	}
	return s.repo.ListMessages(ctx, ex.BookID, ex.OwnerID, ex.SeekerID)
}

// Notifications

func (s *Service) ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.repo.ListNotifications(ctx, userID)
}

func (s *Service) MarkNotificationsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkNotificationsRead(ctx, userID)
}

// notify records the durable notification row and publishes the lifecycle
// event. The lifecycle transition is already committed at this point, so
// side-channel failures are logged, never surfaced to the caller.
func (s *Service) notify(ctx context.Context, userID int64, text, eventType string, ex model.ExchangeDetail) {
	if err := s.repo.CreateNotification(ctx, userID, text); err != nil {
		s.log.Error("create notification", zap.Int64("user_id", userID), zap.Error(err))
	}
	event := model.ExchangeEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ExchangeID: ex.ID,
		BookID:     ex.BookID,
		UserID:     userID,
		Message:    text,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.queue.Enqueue(kafka.ExchangeEventsTopic, event); err != nil {
		s.log.Warn("enqueue exchange event", zap.String("type", eventType), zap.Error(err))
	}
}
