package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

func recv(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHub_DeliversToUserChannelInOrder(t *testing.T) {
	hub := NewHub(logger.Nop())
	user := uuid.New()
	c := hub.NewClient(user)
	other := hub.NewClient(uuid.New())

	for _, n := range []int{1, 2} {
		msg, err := NewMessage(UserChannel(user), EventNotificationCreated, map[string]int{"seq": n})
		if err != nil {
			t.Fatalf("new message: %v", err)
		}
		hub.Broadcast(msg)
	}

	if got := recv(t, c.Outbound); string(got.Data) != `{"seq":1}` {
		t.Fatalf("first: %s", got.Data)
	}
	if got := recv(t, c.Outbound); string(got.Data) != `{"seq":2}` {
		t.Fatalf("second: %s", got.Data)
	}
	select {
	case m := <-other.Outbound:
		t.Fatalf("other user received %+v", m)
	default:
	}
}

func TestHub_CloseClientUnsubscribes(t *testing.T) {
	hub := NewHub(logger.Nop())
	user := uuid.New()
	c := hub.NewClient(user)
	if hub.Subscribers(UserChannel(user)) != 1 {
		t.Fatal("expected one subscriber")
	}

	hub.CloseClient(c)
	if hub.Subscribers(UserChannel(user)) != 0 {
		t.Fatal("expected no subscribers after close")
	}
	if _, ok := <-c.Outbound; ok {
		t.Fatal("outbound should be closed")
	}
	hub.Broadcast(Message{Channel: UserChannel(user), Event: EventNotificationCreated})
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub(logger.Nop())
	user := uuid.New()
	c := hub.NewClient(user)

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(Message{Channel: UserChannel(user), Event: EventNotificationCreated})
	}
	if len(c.Outbound) != outboundBuffer {
		t.Fatalf("expected buffer of %d, got %d", outboundBuffer, len(c.Outbound))
	}
}

func TestHub_ServeHTTPWritesEvents(t *testing.T) {
	hub := NewHub(logger.Nop())
	user := uuid.New()
	c := hub.NewClient(user)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/notifications/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, c)
		close(done)
	}()

	msg, _ := NewMessage(UserChannel(user), EventNotificationCreated, map[string]string{"message": "hello"})
	if err := hub.Publish(ctx, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// Wait until the stream loop has consumed the message before ending the request.
	deadline := time.Now().Add(time.Second)
	for len(c.Outbound) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("content type: %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "event: NotificationCreated") || !strings.Contains(body, `"message":"hello"`) {
		t.Fatalf("unexpected body %q", body)
	}
}
