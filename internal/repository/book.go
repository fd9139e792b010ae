package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/errs"
	"github.com/bookbridge/exchange-service/internal/model"
)

var bookColumns = []string{"book_id", "owner_id", "title", "author", "genre", "description", "book_image", "book_condition", "created_at"}

func (r *repository) CreateBook(ctx context.Context, ownerID int64, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(bookTableName).
		Columns("owner_id", "title", "author", "genre", "description", "book_image").
		Values(ownerID, req.Title, req.Author, req.Genre, req.Description, req.Image).
		Suffix("returning " + joinColumns(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookID int64) (model.BookDetail, error) {
	q, args, err := qb.Select(prefixColumns("b", bookColumns)...).
		Column("u.first_name as owner_name").
		From(bookTableName + " b").
		Join(fmt.Sprintf("%s u on u.id = b.owner_id", usersTableName)).
		Where(sq.Eq{"b.book_id": bookID}).
		ToSql()
	if err != nil {
		return model.BookDetail{}, err
	}
	var book model.BookDetail
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		return model.BookDetail{}, notFoundOn(err)
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookDetail, error) {
	q := qb.Select(prefixColumns("b", bookColumns)...).
		Column("u.first_name as owner_name").
		From(bookTableName + " b").
		Join(fmt.Sprintf("%s u on u.id = b.owner_id", usersTableName))

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.title": keyword},
			sq.ILike{"b.author": keyword},
			sq.ILike{"b.description": keyword},
		})
	}
	if filter.Genre != "" {
		q = q.Where(sq.Eq{"b.genre": filter.Genre})
	}

	query, args, err := q.OrderBy("b.created_at desc").ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.BookDetail, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) BooksByOwner(ctx context.Context, ownerID int64) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(bookTableName).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, bookID int64, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Update(bookTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("genre", req.Genre).
		Set("description", req.Description).
		Set("book_image", req.Image).
		Where(sq.Eq{"book_id": bookID}).
		Suffix("returning " + joinColumns(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		return model.Book{}, notFoundOn(err)
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, bookID int64) error {
	q, args, err := qb.Delete(bookTableName).
		Where(sq.Eq{"book_id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) SetBookStatus(ctx context.Context, bookID int64, status model.BookStatus) error {
	q, args, err := qb.Update(bookTableName).
		Set("book_condition", status).
		Where(sq.Eq{"book_id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) HasActiveExchange(ctx context.Context, bookID int64) (bool, error) {
	q := fmt.Sprintf(`
	select exists(
	    select 1 from %s
	    where book_id = $1 and exchange_status in ('Pending', 'Approved')
	)`, exchangeTableName)
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
