package middleware

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDHeader echoes the id chi assigned so clients can quote it in reports.
const RequestIDHeader = "X-Request-Id"

// RequestID copies chi's request id under our own key and echoes it back.
// Mount it after chimw.RequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// GetRequestID returns the id stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger tags logger with the request id and the raw actor header.
// It runs outside Actor, so the header has not been validated yet.
func requestLogger(logger *slog.Logger, r *http.Request) *slog.Logger {
	l := logger.With(slog.String("request_id", GetRequestID(r.Context())))
	if actor := r.Header.Get(ActorHeader); actor != "" {
		l = l.With(slog.String("actor", actor))
	}
	return l
}
