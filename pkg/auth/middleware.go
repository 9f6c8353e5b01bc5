package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
)

const (
	sessionName      = "auctionhouse_session"
	sessionUserIDKey = "user_id"
	sessionRoleKey   = "role"
)

// RequireAuth is a chi middleware that resolves the request Actor.
// A "Bearer" Authorization header is verified as a JWT; otherwise the session
// cookie must carry a user_id (and optionally a role). Returns 401 when neither
// yields an identity.
//
// After this middleware, handlers can safely call auth.ActorFromCtx(r.Context()).
func RequireAuth(store sessions.Store, verifier *TokenVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || verifier == nil {
					httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				actor, err := verifier.Verify(strings.TrimSpace(token))
				if err != nil {
					log.WarnContext(r.Context(), "invalid bearer token", "error", err)
					httpx.JSONError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
				return
			}

			if store == nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userIDStr, ok := session.Values[sessionUserIDKey].(string)
			if !ok || userIDStr == "" {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid user_id in session", "user_id", userIDStr, "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}
			role, _ := session.Values[sessionRoleKey].(string)

			ctx := WithActor(r.Context(), Actor{UserID: userID, Role: ParseRole(role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StartSession stores actor in a fresh session and writes the cookie.
// The identity collaborator calls this after it has authenticated the user.
func StartSession(w http.ResponseWriter, r *http.Request, store sessions.Store, actor Actor) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values[sessionUserIDKey] = actor.UserID.String()
	session.Values[sessionRoleKey] = string(actor.Role)
	return session.Save(r, w)
}
