package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/services/notification/domain"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
	"github.com/ghuser/auctionhouse/services/notification/domain/repositories"
)

const (
	columns          = `id, recipient_id, kind, message, auction_id, event_id, is_read, created_at`
	uniqueViolation  = "23505"
	uniqueConstraint = "notifications_event_recipient_kind_key"
)

// NotificationRepository implements repositories.NotificationRepository against PostgreSQL.
type NotificationRepository struct {
	db *database.Database
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

// NewNotificationRepository returns a NotificationRepository backed by the given pool.
func NewNotificationRepository(db *database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert relies on the (event_id, recipient_id, kind) unique constraint to
// turn a redelivered event into a no-op.
func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) (bool, error) {
	_, err := r.db.Querier(ctx).ExecContext(ctx,
		`INSERT INTO notifications (`+columns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.RecipientID, string(n.Kind), n.Message, n.AuctionID, n.EventID, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == uniqueConstraint {
			return false, nil
		}
		return false, apperr.Dependency("insert notification", err)
	}
	return true, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	row := r.db.Querier(ctx).QueryRowContext(ctx, `SELECT `+columns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, apperr.Dependency("query notification", err)
	}
	return n, nil
}

func (r *NotificationRepository) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, opts repositories.QueryOpts) ([]*models.Notification, int, error) {
	where := `recipient_id = $1`
	if unreadOnly {
		where += ` AND NOT is_read`
	}

	var total int
	if err := r.db.Querier(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE `+where, recipientID).Scan(&total); err != nil {
		return nil, 0, apperr.Dependency("count notifications", err)
	}

	rows, err := r.db.Querier(ctx).QueryContext(ctx,
		`SELECT `+columns+` FROM notifications WHERE `+where+`
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		recipientID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, apperr.Dependency("list notifications", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, apperr.Dependency("scan notification", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Dependency("list notifications", err)
	}
	return out, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var n int
	if err := r.db.Querier(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipientID).Scan(&n); err != nil {
		return 0, apperr.Dependency("count unread notifications", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return apperr.Dependency("mark notification read", err)
	}
	return requireRow(res)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	res, err := r.db.Querier(ctx).ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`, recipientID)
	if err != nil {
		return 0, apperr.Dependency("mark all notifications read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Dependency("mark all notifications read", err)
	}
	return int(n), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return apperr.Dependency("delete notification", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Dependency("rows affected", err)
	}
	if n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (*models.Notification, error) {
	var (
		n    models.Notification
		kind string
	)
	if err := s.Scan(&n.ID, &n.RecipientID, &kind, &n.Message, &n.AuctionID, &n.EventID, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Kind = models.Kind(kind)
	return &n, nil
}
