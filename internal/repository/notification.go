package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/model"
)

func (r *repository) CreateNotification(ctx context.Context, userID int64, text string) error {
	q, args, err := qb.Insert(notificationTableName).
		Columns("user_id", "message").
		Values(userID, text).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("CreateNotification", zap.String("q", q), zap.Any("args", args))
		return err
	}
	return nil
}

func (r *repository) ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	q, args, err := qb.Select("id", "user_id", "message", "is_read", "created_at").
		From(notificationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.Notification, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MarkNotificationsRead(ctx context.Context, userID int64) error {
	q, args, err := qb.Update(notificationTableName).
		Set("is_read", true).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}
