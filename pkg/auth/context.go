package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorKey contextKey = "actor"

// Role is the marketplace role of an authenticated user.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole maps a claim or session value to a Role. Unknown values are clients.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleClient
}

// Actor is the identity attached to a request by the identity collaborator.
// The core trusts it without further checks.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor may act on other users' auctions.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ErrActorNotFound is returned when no Actor exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrActorNotFound = errors.New("actor not found in context")

// ActorFromCtx extracts the authenticated actor from the request context.
func ActorFromCtx(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.UserID == uuid.Nil {
		return Actor{}, ErrActorNotFound
	}
	return actor, nil
}

// WithActor returns a new context with the given Actor attached.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
