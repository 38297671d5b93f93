package middleware

import (
	"context"
	"log/slog"
)

// requestNotes lets inner middleware report facts to the outer logging
// layers, which only see the request context they created.
type requestNotes struct {
	owner string
}

type notesKey struct{}

func withNotes(ctx context.Context) (context.Context, *requestNotes) {
	if n, ok := ctx.Value(notesKey{}).(*requestNotes); ok {
		return ctx, n
	}
	n := &requestNotes{}
	return context.WithValue(ctx, notesKey{}, n), n
}

func notesFrom(ctx context.Context) *requestNotes {
	n, _ := ctx.Value(notesKey{}).(*requestNotes)
	return n
}

func (n *requestNotes) attrs() []slog.Attr {
	if n == nil || n.owner == "" {
		return nil
	}
	return []slog.Attr{slog.String("owner", n.owner)}
}
