package workflow

import "context"

type requestIDKey struct{}

// WithRequestID сохраняет id запроса для логов и истории статусов.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
