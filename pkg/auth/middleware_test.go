package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

const testSecret = "test-jwt-secret-at-least-32-bytes!!"

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// requestWithSession builds a request carrying a session cookie with the given values.
func requestWithSession(t *testing.T, store sessions.Store, values map[string]string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func serve(t *testing.T, r *http.Request, store sessions.Store) (int, Actor) {
	t.Helper()
	var captured Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = ActorFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	RequireAuth(store, NewTokenVerifier(testSecret), logger.Nop())(next).ServeHTTP(w, r)
	return w.Code, captured
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	code, actor := serve(t, requestWithSession(t, store, map[string]string{
		sessionUserIDKey: userID.String(),
		sessionRoleKey:   string(RoleAdmin),
	}), store)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if actor.UserID != userID || actor.Role != RoleAdmin {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestRequireAuth_SessionWithoutRoleIsClient(t *testing.T) {
	store := newTestStore()
	code, actor := serve(t, requestWithSession(t, store, map[string]string{
		sessionUserIDKey: uuid.NewString(),
	}), store)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if actor.Role != RoleClient {
		t.Fatalf("expected CLIENT role, got %q", actor.Role)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	store := newTestStore()
	expired, err := SignToken(testSecret, Actor{UserID: uuid.New(), Role: RoleClient}, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	wrongKey, err := SignToken("another-secret-that-is-long-enough!", Actor{UserID: uuid.New()}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{"no credentials", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
		}},
		{"session missing user_id", func() *http.Request {
			return requestWithSession(t, store, map[string]string{sessionRoleKey: "ADMIN"})
		}},
		{"session with invalid user_id", func() *http.Request {
			return requestWithSession(t, store, map[string]string{sessionUserIDKey: "not-a-uuid"})
		}},
		{"non-bearer authorization", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
			r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			return r
		}},
		{"expired token", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
			r.Header.Set("Authorization", "Bearer "+expired)
			return r
		}},
		{"token signed with another key", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
			r.Header.Set("Authorization", "Bearer "+wrongKey)
			return r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _ := serve(t, tt.req(), store); code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})
	}
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	want := Actor{UserID: uuid.New(), Role: RoleClient}
	token, err := SignToken(testSecret, want, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
	r.Header.Set("Authorization", "Bearer "+token)
	code, got := serve(t, r, newTestStore())

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestStartSession_RoundTrip(t *testing.T) {
	store := newTestStore()
	actor := Actor{UserID: uuid.New(), Role: RoleAdmin}

	w := httptest.NewRecorder()
	if err := StartSession(w, httptest.NewRequest(http.MethodPost, "/login", http.NoBody), store, actor); err != nil {
		t.Fatalf("start session: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/api/bids/me", http.NoBody)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	code, got := serve(t, r, store)
	if code != http.StatusOK || got != actor {
		t.Fatalf("expected 200 with %+v, got %d with %+v", actor, code, got)
	}
}
