// Package postgres implements the auction repositories against PostgreSQL.
// Every method resolves its connection through database.Querier(ctx), so calls
// made inside database.InTx share the caller's transaction.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

const auctionColumns = `id, title, description, starting_price, current_highest_bid, highest_bid_id,
	start_time, end_time, seller_id, status, views, category, brand, created_at, updated_at, closed_at`

// AuctionRepository implements repositories.AuctionRepository against PostgreSQL.
type AuctionRepository struct {
	db *database.Database
}

var _ repositories.AuctionRepository = (*AuctionRepository)(nil)

// NewAuctionRepository returns an AuctionRepository backed by the given pool.
func NewAuctionRepository(db *database.Database) *AuctionRepository {
	return &AuctionRepository{db: db}
}

// Save inserts the auction row and its images in one transaction.
func (r *AuctionRepository) Save(ctx context.Context, a *models.Auction) error {
	return r.db.InTx(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)
		_, err := q.ExecContext(ctx, `
			INSERT INTO auctions (`+auctionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			a.ID, a.Title, a.Description, a.StartingPrice, a.CurrentHighestBid, nullUUID(a.HighestBidID),
			a.StartTime, a.EndTime, a.SellerID, string(a.Status), a.Views, a.Category, a.Brand,
			a.CreatedAt, a.UpdatedAt, nullTime(a.ClosedAt),
		)
		if err != nil {
			return apperr.Dependency("insert auction", err)
		}

		images := make([]models.Image, 0, 1+len(a.AdditionalImages))
		if a.FrontImage != nil {
			images = append(images, *a.FrontImage)
		}
		images = append(images, a.AdditionalImages...)
		for _, img := range images {
			if _, err := q.ExecContext(ctx, `
				INSERT INTO auction_images (id, auction_id, position, is_front, content_type, data)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				img.ID, a.ID, img.Position, img.IsFront, img.ContentType, img.Data,
			); err != nil {
				return apperr.Dependency("insert auction image", err)
			}
		}
		return nil
	})
}

// GetByID loads the auction row without images.
func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	row := r.db.Querier(ctx).QueryRowContext(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	a, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, apperr.Dependency("query auction", err)
	}
	return a, nil
}

// GetImages returns every image of the auction ordered by position.
func (r *AuctionRepository) GetImages(ctx context.Context, id uuid.UUID) ([]models.Image, error) {
	rows, err := r.db.Querier(ctx).QueryContext(ctx, `
		SELECT id, position, is_front, content_type, data
		FROM auction_images WHERE auction_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, apperr.Dependency("query auction images", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.Position, &img.IsFront, &img.ContentType, &img.Data); err != nil {
			return nil, apperr.Dependency("scan auction image", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("iterate auction images", err)
	}
	return images, nil
}

// Find returns a filtered page of auctions, newest first, with the total match count.
func (r *AuctionRepository) Find(ctx context.Context, f repositories.AuctionFilter, opts repositories.QueryOpts) ([]*models.Auction, int, error) {
	where, args := buildFilter(f)
	q := r.db.Querier(ctx)

	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM auctions`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Dependency("count auctions", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM auctions%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		auctionColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, apperr.Dependency("query auctions", err)
	}
	defer rows.Close()

	var out []*models.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, 0, apperr.Dependency("scan auction", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Dependency("iterate auctions", err)
	}
	return out, total, nil
}

// buildFilter renders f as a WHERE clause with positional arguments.
func buildFilter(f repositories.AuctionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Title != "" {
		add("title ILIKE $%d", likePattern(f.Title))
	}
	if f.Category != "" {
		add("category ILIKE $%d", likePattern(f.Category))
	}
	if f.Brand != "" {
		add("brand ILIKE $%d", likePattern(f.Brand))
	}
	if f.MinPrice != nil {
		add("starting_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("starting_price <= $%d", *f.MaxPrice)
	}
	if f.SellerID != nil {
		add("seller_id = $%d", *f.SellerID)
	}
	if f.ActiveOnly {
		conds = append(conds, "status = 'open'")
		add("end_time > $%d", f.Now)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// IncrementViews bumps the view counter without taking the auction lock.
func (r *AuctionRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `UPDATE auctions SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return apperr.Dependency("increment views", err)
	}
	return requireRow(res, domain.ErrAuctionNotFound)
}

// WithLock locks the auction row with SELECT ... FOR UPDATE and runs fn in the
// same transaction. Concurrent callers on the same auction queue on the row lock.
func (r *AuctionRepository) WithLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, a *models.Auction) error) error {
	return r.db.InTx(ctx, func(ctx context.Context) error {
		row := r.db.Querier(ctx).QueryRowContext(ctx,
			`SELECT `+auctionColumns+` FROM auctions WHERE id = $1 FOR UPDATE`, id)
		a, err := scanAuction(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrAuctionNotFound
			}
			return apperr.Dependency("lock auction", err)
		}
		return fn(ctx, a)
	})
}

// Update writes the editable fields.
func (r *AuctionRepository) Update(ctx context.Context, a *models.Auction) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `
		UPDATE auctions
		SET title = $2, description = $3, end_time = $4, category = $5, brand = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Title, a.Description, a.EndTime, a.Category, a.Brand, a.UpdatedAt)
	if err != nil {
		return apperr.Dependency("update auction", err)
	}
	return requireRow(res, domain.ErrAuctionNotFound)
}

// Delete removes the auction's bids, images and row in one transaction.
func (r *AuctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.InTx(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)
		if _, err := q.ExecContext(ctx, `DELETE FROM bids WHERE auction_id = $1`, id); err != nil {
			return apperr.Dependency("delete bids", err)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM auction_images WHERE auction_id = $1`, id); err != nil {
			return apperr.Dependency("delete auction images", err)
		}
		res, err := q.ExecContext(ctx, `DELETE FROM auctions WHERE id = $1`, id)
		if err != nil {
			return apperr.Dependency("delete auction", err)
		}
		return requireRow(res, domain.ErrAuctionNotFound)
	})
}

// RecordHighestBid overwrites the cached highest bid columns.
func (r *AuctionRepository) RecordHighestBid(ctx context.Context, id, bidID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `
		UPDATE auctions SET current_highest_bid = $2, highest_bid_id = $3, updated_at = $4
		WHERE id = $1`, id, amount, bidID, at)
	if err != nil {
		return apperr.Dependency("record highest bid", err)
	}
	return requireRow(res, domain.ErrAuctionNotFound)
}

// MarkClosed is a compare-and-set on status.
func (r *AuctionRepository) MarkClosed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	q := r.db.Querier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE auctions SET status = 'closed', end_time = $2, closed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'open'`, id, at)
	if err != nil {
		return false, apperr.Dependency("close auction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Dependency("close auction", err)
	}
	if n == 1 {
		return true, nil
	}

	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, apperr.Dependency("check auction", err)
	}
	if !exists {
		return false, domain.ErrAuctionNotFound
	}
	return false, nil
}

// CloseExpired flips every due auction in a single UPDATE. Rows locked by a
// concurrent bid are waited on and re-checked against the predicate.
func (r *AuctionRepository) CloseExpired(ctx context.Context, now time.Time) ([]*models.Auction, error) {
	rows, err := r.db.Querier(ctx).QueryContext(ctx, `
		UPDATE auctions SET status = 'closed', closed_at = $1, updated_at = $1
		WHERE status = 'open' AND end_time <= $1
		RETURNING `+auctionColumns, now)
	if err != nil {
		return nil, apperr.Dependency("close expired auctions", err)
	}
	defer rows.Close()

	var closed []*models.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, apperr.Dependency("scan closed auction", err)
		}
		closed = append(closed, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("iterate closed auctions", err)
	}
	return closed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuction(s scanner) (*models.Auction, error) {
	var (
		a        models.Auction
		status   string
		highest  uuid.NullUUID
		closedAt sql.NullTime
	)
	if err := s.Scan(
		&a.ID, &a.Title, &a.Description, &a.StartingPrice, &a.CurrentHighestBid, &highest,
		&a.StartTime, &a.EndTime, &a.SellerID, &status, &a.Views, &a.Category, &a.Brand,
		&a.CreatedAt, &a.UpdatedAt, &closedAt,
	); err != nil {
		return nil, err
	}
	a.Status = models.Status(status)
	if highest.Valid {
		id := highest.UUID
		a.HighestBidID = &id
	}
	if closedAt.Valid {
		t := closedAt.Time.UTC()
		a.ClosedAt = &t
	}
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Dependency("rows affected", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
