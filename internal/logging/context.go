package logging

import "context"

type requestIDKey struct{}

// ContextWithRequestID attaches a request id that every Logger adds to
// records logged with the returned context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by ContextWithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, args []any) []any {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return args
	}
	out := make([]any, 0, len(args)+2)
	out = append(out, args...)
	return append(out, "request_id", id)
}
