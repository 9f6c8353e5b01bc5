package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/logger"
)

// RedisBus carries Messages between processes over one Redis pub/sub channel.
type RedisBus struct {
	rdb     *redis.Client
	channel string
	log     logger.Logger
}

// NewRedisBus returns a bus publishing on channel.
func NewRedisBus(rc *cache.RedisClient, channel string, log logger.Logger) *RedisBus {
	return &RedisBus{
		rdb:     rc.Client(),
		channel: channel,
		log:     log.With("component", "realtime_bus"),
	}
}

// Publish sends msg to every forwarding process.
func (b *RedisBus) Publish(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("realtime: marshal: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("realtime: publish: %w", err)
	}
	return nil
}

// StartForwarder subscribes to the channel and calls onMsg for every message
// until ctx is cancelled. It returns once the subscription is confirmed.
func (b *RedisBus) StartForwarder(ctx context.Context, onMsg func(Message)) error {
	if onMsg == nil {
		return errors.New("realtime: onMsg callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("realtime: subscribe: %w", err)
	}

	go func() {
		defer sub.Close() //nolint:errcheck
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad realtime payload", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return nil
}
