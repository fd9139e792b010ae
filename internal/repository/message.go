package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/model"
)

var messageColumns = []string{"message_id", "sender_id", "receiver_id", "book_id", "message_content", "created_at"}

func (r *repository) CreateMessage(ctx context.Context, senderID, receiverID, bookID int64, content string) (model.Message, error) {
	q, args, err := qb.Insert(messageTableName).
		Columns("sender_id", "receiver_id", "book_id", "message_content").
		Values(senderID, receiverID, bookID, content).
		Suffix("returning " + joinColumns(messageColumns)).
		ToSql()
	if err != nil {
		return model.Message{}, err
	}
	var msg model.Message
	if err := r.db.GetContext(ctx, &msg, q, args...); err != nil {
		r.log.Error("CreateMessage", zap.String("q", q), zap.Any("args", args))
		return model.Message{}, err
	}
	return msg, nil
}

// ListMessages returns the running conversation between the two
// participants over one book, oldest first. Scope is the
// (book, participant pair), not a single exchange id: a re-request after a
// cancel continues the same thread.
func (r *repository) ListMessages(ctx context.Context, bookID, ownerID, seekerID int64) ([]model.Message, error) {
	pair := []int64{ownerID, seekerID}
	q, args, err := qb.Select(messageColumns...).
		From(messageTableName).
		Where(sq.Eq{"book_id": bookID}).
		Where(sq.Eq{"sender_id": pair}).
		Where(sq.Eq{"receiver_id": pair}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.Message, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}
