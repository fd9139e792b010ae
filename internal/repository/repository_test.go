package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/errs"
	"github.com/bookbridge/exchange-service/internal/model"
	"github.com/bookbridge/exchange-service/internal/repository"
)

func newRepo(t *testing.T) (repository.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := repository.NewRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

var (
	exchangeCols = []string{"id", "book_id", "owner_id", "seeker_id", "message", "exchange_status", "created_at"}
	detailCols   = []string{
		"id", "book_id", "owner_id", "seeker_id", "message", "exchange_status", "created_at",
		"title", "author", "book_image", "requester_name", "owner_name",
	}
)

func detailRows() *sqlmock.Rows {
	return sqlmock.NewRows(detailCols).
		AddRow(int64(1), int64(2), int64(10), int64(20), "Interested!", "Pending", time.Time{},
			"Dune", "Frank Herbert", nil, "Bob", "Alice")
}

const (
	bookLockQuery     = `select owner_id, book_condition from book where book_id = (.+) for update`
	pendingQuery      = `select exists`
	insertQuery       = `INSERT INTO book_exchange`
	exchangeLockQuery = `from book_exchange where id = (.+) for update`
	statusLockQuery   = `select book_condition from book where book_id = (.+) for update`
	detailQuery       = `from book_exchange e`
)

func TestRepository_CreateExchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.CreateExchangeRequest{BookID: 2, Message: "Interested!"}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "book_condition"}).AddRow(int64(10), "Available"))
		mock.ExpectQuery(pendingQuery).
			WithArgs(int64(2), int64(20)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(insertQuery).
			WithArgs(int64(2), int64(10), int64(20), "Interested!", "Pending").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(detailQuery).
			WithArgs(int64(1)).
			WillReturnRows(detailRows())
		mock.ExpectCommit()

		got, err := repo.CreateExchange(ctx, 20, req)
		require.NoError(t, err)
		require.Equal(t, int64(1), got.ID)
		require.Equal(t, model.ExchangeStatusPending, got.Status)
		require.Equal(t, "Bob", got.RequesterName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. own book", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "book_condition"}).AddRow(int64(20), "Available"))
		mock.ExpectRollback()

		_, err := repo.CreateExchange(ctx, 20, req)
		require.ErrorIs(t, err, errs.ErrSelfRequest)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. book reserved", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "book_condition"}).AddRow(int64(10), "Reserved"))
		mock.ExpectRollback()

		_, err := repo.CreateExchange(ctx, 20, req)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. duplicate pending", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "book_condition"}).AddRow(int64(10), "Available"))
		mock.ExpectQuery(pendingQuery).
			WithArgs(int64(2), int64(20)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.CreateExchange(ctx, 20, req)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. book not found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookLockQuery).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.CreateExchange(ctx, 20, req)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_RespondExchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pendingExchange := func() *sqlmock.Rows {
		return sqlmock.NewRows(exchangeCols).
			AddRow(int64(1), int64(2), int64(10), int64(20), "Interested!", "Pending", time.Time{})
	}

	t.Run("approve commits exchange and book together", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(exchangeLockQuery).
			WithArgs(int64(1)).
			WillReturnRows(pendingExchange())
		mock.ExpectQuery(statusLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"book_condition"}).AddRow("Available"))
		mock.ExpectExec(`UPDATE book_exchange SET exchange_status`).
			WithArgs("Approved", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE book SET book_condition`).
			WithArgs("Reserved", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		approvedDetail := sqlmock.NewRows(detailCols).
			AddRow(int64(1), int64(2), int64(10), int64(20), "Interested!", "Approved", time.Time{},
				"Dune", "Frank Herbert", nil, "Bob", "Alice")
		mock.ExpectQuery(detailQuery).
			WithArgs(int64(1)).
			WillReturnRows(approvedDetail)
		mock.ExpectCommit()

		got, err := repo.RespondExchange(ctx, 1, 10, model.ExchangeStatusApproved)
		require.NoError(t, err)
		require.Equal(t, model.ExchangeStatusApproved, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reject leaves the book row alone", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(exchangeLockQuery).
			WithArgs(int64(1)).
			WillReturnRows(pendingExchange())
		mock.ExpectQuery(statusLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"book_condition"}).AddRow("Available"))
		mock.ExpectExec(`UPDATE book_exchange SET exchange_status`).
			WithArgs("Rejected", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		rejectedDetail := sqlmock.NewRows(detailCols).
			AddRow(int64(1), int64(2), int64(10), int64(20), "Interested!", "Rejected", time.Time{},
				"Dune", "Frank Herbert", nil, "Bob", "Alice")
		mock.ExpectQuery(detailQuery).
			WithArgs(int64(1)).
			WillReturnRows(rejectedDetail)
		mock.ExpectCommit()

		got, err := repo.RespondExchange(ctx, 1, 10, model.ExchangeStatusRejected)
		require.NoError(t, err)
		require.Equal(t, model.ExchangeStatusRejected, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. caller is not the owner", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(exchangeLockQuery).
			WithArgs(int64(1)).
			WillReturnRows(pendingExchange())
		mock.ExpectQuery(statusLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"book_condition"}).AddRow("Available"))
		mock.ExpectRollback()

		_, err := repo.RespondExchange(ctx, 1, 99, model.ExchangeStatusApproved)
		require.ErrorIs(t, err, errs.ErrPermissionDenied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. already decided", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(exchangeLockQuery).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(exchangeCols).
				AddRow(int64(1), int64(2), int64(10), int64(20), "Interested!", "Approved", time.Time{}))
		mock.ExpectQuery(statusLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"book_condition"}).AddRow("Reserved"))
		mock.ExpectRollback()

		_, err := repo.RespondExchange(ctx, 1, 10, model.ExchangeStatusRejected)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. book no longer available", func(t *testing.T) {
		// sibling approval already reserved the book; this pending
		// request fails its own re-check instead of being eagerly
		// invalidated
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(exchangeLockQuery).
			WithArgs(int64(1)).
			WillReturnRows(pendingExchange())
		mock.ExpectQuery(statusLockQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"book_condition"}).AddRow("Reserved"))
		mock.ExpectRollback()

		_, err := repo.RespondExchange(ctx, 1, 10, model.ExchangeStatusApproved)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. exchange not found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(exchangeLockQuery).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.RespondExchange(ctx, 42, 10, model.ExchangeStatusApproved)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CancelExchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectExec(`delete from book_exchange`).
			WithArgs(int64(1), int64(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.CancelExchange(ctx, 1, 20))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. nothing matched", func(t *testing.T) {
		// wrong caller, wrong id and non-Pending status all land here
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectExec(`delete from book_exchange`).
			WithArgs(int64(1), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.CancelExchange(ctx, 1, 10)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetExchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectQuery(detailQuery).
			WithArgs(int64(1)).
			WillReturnRows(detailRows())

		got, err := repo.GetExchange(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, int64(2), got.BookID)
		require.Equal(t, "Alice", got.OwnerName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectQuery(detailQuery).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetExchange(ctx, 42)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListMessages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mock := newRepo(t)

	rows := sqlmock.NewRows([]string{"message_id", "sender_id", "receiver_id", "book_id", "message_content", "created_at"}).
		AddRow(int64(7), int64(20), int64(10), int64(2), "When can we meet?", time.Time{}).
		AddRow(int64(8), int64(10), int64(20), int64(2), "Saturday works.", time.Time{})
	mock.ExpectQuery(`SELECT (.+) FROM message`).
		WillReturnRows(rows)

	got, err := repo.ListMessages(ctx, 2, 10, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "When can we meet?", got[0].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetBookStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE book SET book_condition`).
			WithArgs("Reserved", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetBookStatus(ctx, 2, model.BookStatusReserved))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. unknown book", func(t *testing.T) {
		t.Parallel()
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE book SET book_condition`).
			WithArgs("Available", int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetBookStatus(ctx, 42, model.BookStatusAvailable)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
