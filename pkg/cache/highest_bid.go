package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// HighestBidTTL bounds how long a read-model entry may outlive a missed invalidation.
	HighestBidTTL = 10 * time.Minute

	highestBidKeyPrefix = "auction:highest"
)

// CachedBid is the denormalized highest-bid read model stored in Redis.
// The database row on the auction stays authoritative; this copy only serves reads.
type CachedBid struct {
	BidID     uuid.UUID
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	PlacedAt  time.Time
}

// HighestBidCache stores the current highest bid per auction as a Redis hash.
// Key format: "auction:highest:{auctionID}"
type HighestBidCache struct {
	client *RedisClient
}

// NewHighestBidCache creates a HighestBidCache backed by the given RedisClient.
func NewHighestBidCache(r *RedisClient) *HighestBidCache {
	return &HighestBidCache{client: r}
}

// Get returns the cached highest bid. Returns redis.Nil when absent or expired.
func (c *HighestBidCache) Get(ctx context.Context, auctionID uuid.UUID) (*CachedBid, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(auctionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	bidID, err := uuid.Parse(vals["bid_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse bid_id: %w", err)
	}
	bidderID, err := uuid.Parse(vals["bidder_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse bidder_id: %w", err)
	}
	amount, err := decimal.NewFromString(vals["amount"])
	if err != nil {
		return nil, fmt.Errorf("cache parse amount: %w", err)
	}
	placedAt, err := time.Parse(time.RFC3339Nano, vals["placed_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse placed_at: %w", err)
	}

	return &CachedBid{
		BidID:     bidID,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		PlacedAt:  placedAt,
	}, nil
}

// setIfHigher never lowers the stored amount. Bids on an auction strictly
// increase, so a late writer carrying an older bid is ignored.
var setIfHigher = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'amount')
if cur and tonumber(cur) >= tonumber(ARGV[3]) then
  return 0
end
redis.call('HSET', KEYS[1], 'bid_id', ARGV[1], 'bidder_id', ARGV[2], 'amount', ARGV[3], 'placed_at', ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// Set stores bid unless the entry already holds an equal or higher amount.
func (c *HighestBidCache) Set(ctx context.Context, bid *CachedBid) error {
	err := setIfHigher.Run(ctx, c.client.Client(), []string{c.key(bid.AuctionID)},
		bid.BidID.String(),
		bid.BidderID.String(),
		bid.Amount.String(),
		bid.PlacedAt.UTC().Format(time.RFC3339Nano),
		HighestBidTTL.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes the entry for an auction.
func (c *HighestBidCache) Delete(ctx context.Context, auctionID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(auctionID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *HighestBidCache) key(auctionID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", highestBidKeyPrefix, auctionID)
}
