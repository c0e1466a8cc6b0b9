package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/domain/model"
)

// ActorHeader carries the authenticated user id set by the upstream gateway.
const ActorHeader = "X-User-ID"

const actorIDKey ctxKey = iota + 1

// Actor resolves the acting user from ActorHeader. A missing header leaves
// the request anonymous; a malformed one is rejected.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(ActorHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		actorID, err := model.ParseID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+ActorHeader+" header", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), actorID)))
	})
}

// WithActorID returns a copy of ctx carrying actorID.
func WithActorID(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// GetActorID returns the acting user, or uuid.Nil for anonymous requests.
func GetActorID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(actorIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
