package services

import "context"

type contextKey string

const (
	stageKey     contextKey = "stage"
	codecKey     contextKey = "codec"
	rungKey      contextKey = "rung"
	requestIDKey contextKey = "request_id"
)

// WithStage annotates context with the pipeline stage name (convert, ladder).
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithCodec annotates context with the codec profile id of the running job.
func WithCodec(ctx context.Context, codec string) context.Context {
	if codec == "" {
		return ctx
	}
	return context.WithValue(ctx, codecKey, codec)
}

// CodecFromContext returns the codec id if present.
func CodecFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(codecKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRungIndex annotates context with the zero-based ladder rung index.
func WithRungIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, rungKey, index)
}

// RungIndexFromContext extracts the ladder rung index if present.
func RungIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(rungKey).(int)
	return v, ok
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
