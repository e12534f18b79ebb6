package handlers

import (
	"context"
	"delivery-analytics-service/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(domain.Session)
	return s, ok
}
