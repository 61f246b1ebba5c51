// Package requestctx carries per-request values through context.Context so
// that domain code and the logger can read them without depending on gin.
package requestctx

import "context"

type key struct{}

// WithRequestID returns a copy of ctx tagged with id. A nil ctx is treated
// as context.Background.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key{}, id)
}

// RequestID returns the id stored by WithRequestID, or "" when there is none.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key{}).(string)
	return id
}
