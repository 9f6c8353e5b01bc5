package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

func TestRetryWithBackoff(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		failFirst int // handler fails this many times, -1 means always
		delay     time.Duration
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", context.Background(), 0, time.Millisecond, false, 1},
		{"succeeds on last attempt", context.Background(), maxRetries - 1, time.Millisecond, false, maxRetries},
		{"always failing", context.Background(), -1, time.Millisecond, true, maxRetries},
		{"canceled while waiting", canceled, -1, time.Hour, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			handler := func(context.Context, *message.Message) error {
				calls++
				if tt.failFirst < 0 || calls <= tt.failFirst {
					return errors.New("notification store unavailable")
				}
				return nil
			}
			err := retryWithBackoff(tt.ctx, message.NewMessage("m-1", nil), handler, maxRetries, tt.delay, logger.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Fatalf("handler called %d times, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestDelivery_AckOrNackAfterExhaustedRetries(t *testing.T) {
	tests := []struct {
		name         string
		ackOnFailure bool
	}{
		{"durable transport redelivers", false},
		{"in-process transport drops", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			d := delivery{
				topic:        "auction.closed",
				handler:      func(context.Context, *message.Message) error { return errors.New("boom") },
				baseDelay:    time.Millisecond,
				ackOnFailure: tt.ackOnFailure,
				log:          logger.Nop(),
			}
			ch := make(chan *message.Message, 1)
			var wg sync.WaitGroup
			errCh := d.run(ctx, &wg, ch)

			msg := message.NewMessage("m-1", []byte("{}"))
			ch <- msg

			want, other := msg.Nacked(), msg.Acked()
			if tt.ackOnFailure {
				want, other = msg.Acked(), msg.Nacked()
			}
			select {
			case <-want:
			case <-other:
				t.Fatal("message settled the wrong way")
			case <-time.After(2 * time.Second):
				t.Fatal("message never settled")
			}

			select {
			case err := <-errCh:
				if err == nil {
					t.Fatal("expected a reported error")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("error not reported")
			}

			close(ch)
			wg.Wait()
		})
	}
}
