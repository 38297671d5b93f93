// Package ctxutil carries per-request identity through context.Context.
package ctxutil

import (
	"context"
	"strings"
)

type ctxKey int

const (
	userEmailKey ctxKey = iota
	requestIDKey
)

// WithUserEmail records the authenticated owner of the request.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// UserEmailFromCtx reports the owner set by WithUserEmail. A blank value
// counts as absent.
func UserEmailFromCtx(ctx context.Context) (string, bool) {
	email, _ := ctx.Value(userEmailKey).(string)
	if strings.TrimSpace(email) == "" {
		return "", false
	}
	return email, true
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx returns "" when no ID was set.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
