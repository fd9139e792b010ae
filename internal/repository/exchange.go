package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/errs"
	"github.com/bookbridge/exchange-service/internal/model"
)

const exchangeDetailColumns = `
	e.id, e.book_id, e.owner_id, e.seeker_id, e.message, e.exchange_status, e.created_at,
	b.title, b.author, b.book_image,
	requester.first_name as requester_name,
	owner.first_name as owner_name`

func exchangeDetailQuery(where string) string {
	return fmt.Sprintf(`
	select %s
	from %s e
	join %s b on b.book_id = e.book_id
	join %s requester on requester.id = e.seeker_id
	join %s owner on owner.id = e.owner_id
	%s`, exchangeDetailColumns, exchangeTableName, bookTableName, usersTableName, usersTableName, where)
}

// CreateExchange inserts a Pending request after re-reading the book under a
// row lock: the book must exist, be Available and not belong to the seeker,
// and the (book, seeker) pair must not already have a Pending request. The
// book itself stays Available; competing Pending requests from other seekers
// remain legal until one is approved.
func (r *repository) CreateExchange(ctx context.Context, seekerID int64, req model.CreateExchangeRequest) (model.ExchangeDetail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var book struct {
		OwnerID int64            `db:"owner_id"`
		Status  model.BookStatus `db:"book_condition"`
	}
	q := fmt.Sprintf(`select owner_id, book_condition from %s where book_id = $1 for update`, bookTableName)
	if err := tx.GetContext(ctx, &book, q, req.BookID); err != nil {
		return model.ExchangeDetail{}, notFoundOn(err)
	}
	if book.OwnerID == seekerID {
		return model.ExchangeDetail{}, errs.ErrSelfRequest
	}
	if book.Status != model.BookStatusAvailable {
		return model.ExchangeDetail{}, errors.Wrap(errs.ErrConflict, "book is not available")
	}

	var pending bool
	q = fmt.Sprintf(`
	select exists(
	    select 1 from %s
	    where book_id = $1 and seeker_id = $2 and exchange_status = 'Pending'
	)`, exchangeTableName)
	if err := tx.GetContext(ctx, &pending, q, req.BookID, seekerID); err != nil {
		return model.ExchangeDetail{}, err
	}
	if pending {
		return model.ExchangeDetail{}, errors.Wrap(errs.ErrConflict, "you already have a pending request for this book")
	}

	q, args, err := qb.Insert(exchangeTableName).
		Columns("book_id", "owner_id", "seeker_id", "message", "exchange_status").
		Values(req.BookID, book.OwnerID, seekerID, req.Message, model.ExchangeStatusPending).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	var id int64
	if err := tx.GetContext(ctx, &id, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.ExchangeDetail{}, errors.Wrap(errs.ErrConflict, "you already have a pending request for this book")
		}
		r.log.Error("CreateExchange", zap.String("q", q), zap.Any("args", args))
		return model.ExchangeDetail{}, err
	}

	var detail model.ExchangeDetail
	if err := tx.GetContext(ctx, &detail, exchangeDetailQuery("where e.id = $1"), id); err != nil {
		return model.ExchangeDetail{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.ExchangeDetail{}, err
	}
	return detail, nil
}

// RespondExchange applies an owner decision. Exchange and book rows are
// locked in that order, so two concurrent approvals over the same book
// serialize and the second observes Reserved. Both writes commit together.
func (r *repository) RespondExchange(ctx context.Context, exchangeID, callerID int64, decision model.ExchangeStatus) (model.ExchangeDetail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var ex model.Exchange
	q := fmt.Sprintf(`
	select id, book_id, owner_id, seeker_id, message, exchange_status, created_at
	from %s where id = $1 for update`, exchangeTableName)
	if err := tx.GetContext(ctx, &ex, q, exchangeID); err != nil {
		return model.ExchangeDetail{}, notFoundOn(err)
	}

	var bookStatus model.BookStatus
	q = fmt.Sprintf(`select book_condition from %s where book_id = $1 for update`, bookTableName)
	if err := tx.GetContext(ctx, &bookStatus, q, ex.BookID); err != nil {
		return model.ExchangeDetail{}, notFoundOn(err)
	}

	if ex.OwnerID != callerID {
		return model.ExchangeDetail{}, errors.Wrap(errs.ErrPermissionDenied, "only the book owner can approve or reject exchanges")
	}
	if ex.Status != model.ExchangeStatusPending {
		return model.ExchangeDetail{}, errors.Wrapf(errs.ErrConflict, "exchange is already %s", ex.Status)
	}
	if decision == model.ExchangeStatusApproved && bookStatus != model.BookStatusAvailable {
		return model.ExchangeDetail{}, errors.Wrap(errs.ErrConflict, "book is no longer available")
	}

	q, args, err := qb.Update(exchangeTableName).
		Set("exchange_status", decision).
		Where(sq.Eq{"id": exchangeID}).
		ToSql()
	if err != nil {
		return model.ExchangeDetail{}, err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return model.ExchangeDetail{}, err
	}

	if decision == model.ExchangeStatusApproved {
		q, args, err = qb.Update(bookTableName).
			Set("book_condition", model.BookStatusReserved).
			Where(sq.Eq{"book_id": ex.BookID}).
			ToSql()
		if err != nil {
			return model.ExchangeDetail{}, err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return model.ExchangeDetail{}, err
		}
	}

	var detail model.ExchangeDetail
	if err := tx.GetContext(ctx, &detail, exchangeDetailQuery("where e.id = $1"), exchangeID); err != nil {
		return model.ExchangeDetail{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.ExchangeDetail{}, err
	}
	return detail, nil
}

// CancelExchange hard-deletes a Pending request owned by the caller as
// seeker. A miss on any predicate reports the same not-found error, so
// existence is not leaked to non-participants.
func (r *repository) CancelExchange(ctx context.Context, exchangeID, callerID int64) error {
	q := fmt.Sprintf(`
	delete from %s
	where id = $1 and seeker_id = $2 and exchange_status = 'Pending'`, exchangeTableName)
	res, err := r.db.ExecContext(ctx, q, exchangeID, callerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errors.Wrap(errs.ErrNotFound, "pending exchange request")
	}
	return nil
}

func (r *repository) ListExchanges(ctx context.Context, userID int64) ([]model.ExchangeDetail, error) {
	q := exchangeDetailQuery(`
	where e.seeker_id = $1 or e.owner_id = $1
	order by e.created_at desc`)
	items := make([]model.ExchangeDetail, 0)
	if err := r.db.SelectContext(ctx, &items, q, userID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetExchange(ctx context.Context, exchangeID int64) (model.ExchangeDetail, error) {
	var detail model.ExchangeDetail
	if err := r.db.GetContext(ctx, &detail, exchangeDetailQuery("where e.id = $1"), exchangeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ExchangeDetail{}, errors.Wrap(errs.ErrNotFound, "exchange")
		}
		return model.ExchangeDetail{}, err
	}
	return detail, nil
}
