// Package memory is an in-process implementation of the auction repositories.
// It backs the unit tests of the application layer and single-binary setups
// without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/services/auction/domain"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
)

// Store holds auctions, images and bids behind one RWMutex. Per-auction
// mutexes give WithLock the same serialization a row lock gives in Postgres.
type Store struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]*models.Auction
	images   map[uuid.UUID][]models.Image
	bids     map[uuid.UUID][]*models.Bid // by auction, in append order
	bidsByID map[uuid.UUID]*models.Bid

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	bus events.Publisher
}

// NewStore returns an empty store. Enqueued events are published on bus
// once the surrounding InTx returns without error; bus may be nil.
func NewStore(bus events.Publisher) *Store {
	return &Store{
		auctions: make(map[uuid.UUID]*models.Auction),
		images:   make(map[uuid.UUID][]models.Image),
		bids:     make(map[uuid.UUID][]*models.Bid),
		bidsByID: make(map[uuid.UUID]*models.Bid),
		locks:    make(map[uuid.UUID]*sync.Mutex),
		bus:      bus,
	}
}

// Auctions returns the AuctionRepository view of the store.
func (s *Store) Auctions() *AuctionRepository { return &AuctionRepository{s: s} }

// Bids returns the BidRepository view of the store.
func (s *Store) Bids() *BidRepository { return &BidRepository{s: s} }

// Outbox returns an Outbox that defers publication to the end of InTx.
func (s *Store) Outbox() *Outbox { return &Outbox{s: s} }

type pendingKey struct{}

type pending struct {
	msgs []pendingMsg
}

type pendingMsg struct {
	topic   string
	eventID uuid.UUID
	payload any
}

// InTx buffers events enqueued by fn and publishes them only when fn succeeds.
// Nested calls join the outer buffer.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(pendingKey{}).(*pending); ok {
		return fn(ctx)
	}
	p := &pending{}
	if err := fn(context.WithValue(ctx, pendingKey{}, p)); err != nil {
		return err
	}
	for _, m := range p.msgs {
		if err := s.publish(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) publish(ctx context.Context, m pendingMsg) error {
	if s.bus == nil {
		return nil
	}
	msg, err := events.NewMessage(m.eventID, domainevents.Version, m.payload)
	if err != nil {
		return err
	}
	return s.bus.Publish(ctx, m.topic, msg)
}

func (s *Store) lockFor(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Outbox implements repositories.Outbox for the memory store.
type Outbox struct {
	s *Store
}

// Enqueue records the event in the current InTx, or publishes it at once
// when called outside a transaction.
func (o *Outbox) Enqueue(ctx context.Context, topic string, eventID uuid.UUID, payload any) error {
	m := pendingMsg{topic: topic, eventID: eventID, payload: payload}
	if p, ok := ctx.Value(pendingKey{}).(*pending); ok {
		p.msgs = append(p.msgs, m)
		return nil
	}
	return o.s.publish(ctx, m)
}

// AuctionRepository implements repositories.AuctionRepository in memory.
type AuctionRepository struct {
	s *Store
}

var _ repositories.AuctionRepository = (*AuctionRepository)(nil)

func (r *AuctionRepository) Save(_ context.Context, a *models.Auction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.auctions[a.ID]; ok {
		return fmt.Errorf("auction %s already exists", a.ID)
	}
	stored := a.Clone()
	var imgs []models.Image
	if stored.FrontImage != nil {
		imgs = append(imgs, *stored.FrontImage)
	}
	imgs = append(imgs, stored.AdditionalImages...)
	stored.FrontImage, stored.AdditionalImages = nil, nil
	r.s.auctions[a.ID] = stored
	r.s.images[a.ID] = imgs
	return nil
}

func (r *AuctionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Auction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return a.Clone(), nil
}

func (r *AuctionRepository) GetImages(_ context.Context, id uuid.UUID) ([]models.Image, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if _, ok := r.s.auctions[id]; !ok {
		return nil, domain.ErrAuctionNotFound
	}
	imgs := append([]models.Image(nil), r.s.images[id]...)
	sort.Slice(imgs, func(i, j int) bool { return imgs[i].Position < imgs[j].Position })
	return imgs, nil
}

func (r *AuctionRepository) Find(_ context.Context, f repositories.AuctionFilter, opts repositories.QueryOpts) ([]*models.Auction, int, error) {
	r.s.mu.RLock()
	var matched []*models.Auction
	for _, a := range r.s.auctions {
		if matches(a, f) {
			matched = append(matched, a.Clone())
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return paginate(matched, opts), len(matched), nil
}

func matches(a *models.Auction, f repositories.AuctionFilter) bool {
	if f.Title != "" && !containsFold(a.Title, f.Title) {
		return false
	}
	if f.Category != "" && !containsFold(a.Category, f.Category) {
		return false
	}
	if f.Brand != "" && !containsFold(a.Brand, f.Brand) {
		return false
	}
	if f.MinPrice != nil && a.StartingPrice.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && a.StartingPrice.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.SellerID != nil && a.SellerID != *f.SellerID {
		return false
	}
	if f.ActiveOnly && !a.AcceptsBidsAt(f.Now) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *AuctionRepository) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.auctions[id]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	a.Views++
	return nil
}

func (r *AuctionRepository) WithLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, a *models.Auction) error) error {
	l := r.s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	return r.s.InTx(ctx, func(ctx context.Context) error {
		a, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, a)
	})
}

func (r *AuctionRepository) Update(_ context.Context, a *models.Auction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.auctions[a.ID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	cur.Title = a.Title
	cur.Description = a.Description
	cur.EndTime = a.EndTime
	cur.Category = a.Category
	cur.Brand = a.Brand
	cur.UpdatedAt = a.UpdatedAt
	return nil
}

func (r *AuctionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.auctions[id]; !ok {
		return domain.ErrAuctionNotFound
	}
	for _, b := range r.s.bids[id] {
		delete(r.s.bidsByID, b.ID)
	}
	delete(r.s.bids, id)
	delete(r.s.images, id)
	delete(r.s.auctions, id)

	r.s.locksMu.Lock()
	delete(r.s.locks, id)
	r.s.locksMu.Unlock()
	return nil
}

func (r *AuctionRepository) RecordHighestBid(_ context.Context, id, bidID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.auctions[id]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	bid := bidID
	a.HighestBidID = &bid
	a.CurrentHighestBid = amount
	a.UpdatedAt = at.UTC()
	return nil
}

func (r *AuctionRepository) MarkClosed(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.auctions[id]
	if !ok {
		return false, domain.ErrAuctionNotFound
	}
	if !a.IsOpen() {
		return false, nil
	}
	at = at.UTC()
	a.Status = models.StatusClosed
	a.EndTime = at
	a.ClosedAt = &at
	a.UpdatedAt = at
	return true, nil
}

// CloseExpired takes each candidate's auction lock, so it never interleaves
// with a bid, update or explicit close on the same auction.
func (r *AuctionRepository) CloseExpired(_ context.Context, now time.Time) ([]*models.Auction, error) {
	r.s.mu.RLock()
	var candidates []uuid.UUID
	for id, a := range r.s.auctions {
		if a.IsOpen() && !a.EndTime.After(now) {
			candidates = append(candidates, id)
		}
	}
	r.s.mu.RUnlock()

	now = now.UTC()
	var closed []*models.Auction
	for _, id := range candidates {
		l := r.s.lockFor(id)
		l.Lock()
		r.s.mu.Lock()
		if a, ok := r.s.auctions[id]; ok && a.IsOpen() && !a.EndTime.After(now) {
			closedAt := now
			a.Status = models.StatusClosed
			a.ClosedAt = &closedAt
			a.UpdatedAt = now
			closed = append(closed, a.Clone())
		}
		r.s.mu.Unlock()
		l.Unlock()
	}
	return closed, nil
}

// BidRepository implements repositories.BidRepository in memory.
type BidRepository struct {
	s *Store
}

var _ repositories.BidRepository = (*BidRepository)(nil)

func (r *BidRepository) Append(_ context.Context, b *models.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.auctions[b.AuctionID]; !ok {
		return domain.ErrAuctionNotFound
	}
	stored := *b
	r.s.bids[b.AuctionID] = append(r.s.bids[b.AuctionID], &stored)
	r.s.bidsByID[b.ID] = &stored
	return nil
}

func (r *BidRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bidsByID[id]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	c := *b
	return &c, nil
}

func (r *BidRepository) Highest(_ context.Context, auctionID uuid.UUID) (*models.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	top := domainsvcs.HighestOf(r.s.bids[auctionID])
	if top == nil {
		return nil, nil
	}
	c := *top
	return &c, nil
}

func (r *BidRepository) Count(_ context.Context, auctionID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.bids[auctionID]), nil
}

func (r *BidRepository) FindByAuction(_ context.Context, auctionID uuid.UUID, opts repositories.QueryOpts) ([]*models.Bid, int, error) {
	r.s.mu.RLock()
	bids := copyBids(r.s.bids[auctionID])
	r.s.mu.RUnlock()

	sort.SliceStable(bids, func(i, j int) bool { return domainsvcs.Outranks(bids[i], bids[j]) })
	return paginate(bids, opts), len(bids), nil
}

func (r *BidRepository) FindByBidder(_ context.Context, bidderID uuid.UUID, opts repositories.QueryOpts) ([]*models.Bid, int, error) {
	bids := r.byBidder(bidderID)
	sortNewestFirst(bids)
	return paginate(bids, opts), len(bids), nil
}

func (r *BidRepository) FindLeadingByBidder(_ context.Context, bidderID uuid.UUID, opts repositories.QueryOpts) ([]*models.Bid, int, error) {
	best := make(map[uuid.UUID]*models.Bid)
	for _, b := range r.byBidder(bidderID) {
		if cur, ok := best[b.AuctionID]; !ok || domainsvcs.Outranks(b, cur) {
			best[b.AuctionID] = b
		}
	}
	bids := make([]*models.Bid, 0, len(best))
	for _, b := range best {
		bids = append(bids, b)
	}
	sortNewestFirst(bids)
	return paginate(bids, opts), len(bids), nil
}

func (r *BidRepository) DistinctBidders(_ context.Context, auctionID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, b := range r.s.bids[auctionID] {
		if _, ok := seen[b.BidderID]; ok {
			continue
		}
		seen[b.BidderID] = struct{}{}
		out = append(out, b.BidderID)
	}
	return out, nil
}

func (r *BidRepository) byBidder(bidderID uuid.UUID) []*models.Bid {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.Bid
	for _, list := range r.s.bids {
		for _, b := range list {
			if b.BidderID == bidderID {
				c := *b
				out = append(out, &c)
			}
		}
	}
	return out
}

func copyBids(in []*models.Bid) []*models.Bid {
	out := make([]*models.Bid, len(in))
	for i, b := range in {
		c := *b
		out[i] = &c
	}
	return out
}

func sortNewestFirst(bids []*models.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if !bids[i].PlacedAt.Equal(bids[j].PlacedAt) {
			return bids[i].PlacedAt.After(bids[j].PlacedAt)
		}
		return bids[i].ID.String() < bids[j].ID.String()
	})
}

func paginate[T any](items []T, opts repositories.QueryOpts) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	return items[opts.Offset:end]
}
