package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/errs"
	"github.com/bookbridge/exchange-service/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateBook(ctx context.Context, ownerID int64, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID int64) (model.BookDetail, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookDetail, error)
	BooksByOwner(ctx context.Context, ownerID int64) ([]model.Book, error)
	UpdateBook(ctx context.Context, bookID int64, req model.CreateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID int64) error
	SetBookStatus(ctx context.Context, bookID int64, status model.BookStatus) error
	HasActiveExchange(ctx context.Context, bookID int64) (bool, error)

	CreateExchange(ctx context.Context, seekerID int64, req model.CreateExchangeRequest) (model.ExchangeDetail, error)
	RespondExchange(ctx context.Context, exchangeID, callerID int64, decision model.ExchangeStatus) (model.ExchangeDetail, error)
	CancelExchange(ctx context.Context, exchangeID, callerID int64) error
	ListExchanges(ctx context.Context, userID int64) ([]model.ExchangeDetail, error)
	GetExchange(ctx context.Context, exchangeID int64) (model.ExchangeDetail, error)

	CreateMessage(ctx context.Context, senderID, receiverID, bookID int64, content string) (model.Message, error)
	ListMessages(ctx context.Context, bookID, ownerID, seekerID int64) ([]model.Message, error)

	CreateNotification(ctx context.Context, userID int64, text string) error
	ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID int64) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	bookTableName         = `book`
	exchangeTableName     = `book_exchange`
	messageTableName      = `message`
	notificationTableName = `notification`
	usersTableName        = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func notFoundOn(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func prefixColumns(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
