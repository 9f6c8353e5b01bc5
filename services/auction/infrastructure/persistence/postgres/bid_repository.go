package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/apperr"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

const bidColumns = `id, auction_id, bidder_id, amount, placed_at`

// BidRepository implements repositories.BidRepository against PostgreSQL.
type BidRepository struct {
	db *database.Database
}

var _ repositories.BidRepository = (*BidRepository)(nil)

// NewBidRepository returns a BidRepository backed by the given pool.
func NewBidRepository(db *database.Database) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Append(ctx context.Context, b *models.Bid) error {
	if _, err := r.db.Querier(ctx).ExecContext(ctx,
		`INSERT INTO bids (`+bidColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.AuctionID, b.BidderID, b.Amount, b.PlacedAt,
	); err != nil {
		return apperr.Dependency("insert bid", err)
	}
	return nil
}

func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	row := r.db.Querier(ctx).QueryRowContext(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
	b, err := scanBid(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, apperr.Dependency("query bid", err)
	}
	return b, nil
}

// Highest uses the (auction_id, amount DESC, placed_at) index.
func (r *BidRepository) Highest(ctx context.Context, auctionID uuid.UUID) (*models.Bid, error) {
	row := r.db.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+bidColumns+` FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, placed_at ASC LIMIT 1`, auctionID)
	b, err := scanBid(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Dependency("query highest bid", err)
	}
	return b, nil
}

func (r *BidRepository) Count(ctx context.Context, auctionID uuid.UUID) (int, error) {
	var n int
	if err := r.db.Querier(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM bids WHERE auction_id = $1`, auctionID).Scan(&n); err != nil {
		return 0, apperr.Dependency("count bids", err)
	}
	return n, nil
}

func (r *BidRepository) FindByAuction(ctx context.Context, auctionID uuid.UUID, opts repositories.QueryOpts) ([]*models.Bid, int, error) {
	total, err := r.Count(ctx, auctionID)
	if err != nil {
		return nil, 0, err
	}
	bids, err := r.query(ctx, `
		SELECT `+bidColumns+` FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, placed_at ASC LIMIT $2 OFFSET $3`,
		auctionID, opts.Limit, opts.Offset)
	return bids, total, err
}

func (r *BidRepository) FindByBidder(ctx context.Context, bidderID uuid.UUID, opts repositories.QueryOpts) ([]*models.Bid, int, error) {
	var total int
	if err := r.db.Querier(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM bids WHERE bidder_id = $1`, bidderID).Scan(&total); err != nil {
		return nil, 0, apperr.Dependency("count bidder bids", err)
	}
	bids, err := r.query(ctx, `
		SELECT `+bidColumns+` FROM bids WHERE bidder_id = $1
		ORDER BY placed_at DESC, id LIMIT $2 OFFSET $3`,
		bidderID, opts.Limit, opts.Offset)
	return bids, total, err
}

func (r *BidRepository) FindLeadingByBidder(ctx context.Context, bidderID uuid.UUID, opts repositories.QueryOpts) ([]*models.Bid, int, error) {
	var total int
	if err := r.db.Querier(ctx).QueryRowContext(ctx,
		`SELECT count(DISTINCT auction_id) FROM bids WHERE bidder_id = $1`, bidderID).Scan(&total); err != nil {
		return nil, 0, apperr.Dependency("count bidder auctions", err)
	}
	bids, err := r.query(ctx, `
		SELECT `+bidColumns+` FROM (
			SELECT DISTINCT ON (auction_id) `+bidColumns+`
			FROM bids WHERE bidder_id = $1
			ORDER BY auction_id, amount DESC, placed_at ASC
		) top
		ORDER BY placed_at DESC, id LIMIT $2 OFFSET $3`,
		bidderID, opts.Limit, opts.Offset)
	return bids, total, err
}

func (r *BidRepository) DistinctBidders(ctx context.Context, auctionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Querier(ctx).QueryContext(ctx,
		`SELECT DISTINCT bidder_id FROM bids WHERE auction_id = $1`, auctionID)
	if err != nil {
		return nil, apperr.Dependency("query bidders", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Dependency("scan bidder", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("iterate bidders", err)
	}
	return out, nil
}

func (r *BidRepository) query(ctx context.Context, query string, args ...any) ([]*models.Bid, error) {
	rows, err := r.db.Querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Dependency("query bids", err)
	}
	defer rows.Close()

	var out []*models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, apperr.Dependency("scan bid", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("iterate bids", err)
	}
	return out, nil
}

func scanBid(s scanner) (*models.Bid, error) {
	var b models.Bid
	if err := s.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.PlacedAt); err != nil {
		return nil, err
	}
	b.PlacedAt = b.PlacedAt.UTC()
	return &b, nil
}
