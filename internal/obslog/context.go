package obslog

import "context"

type ctxKey struct{}

// FromContext extracts the Logger attached to ctx, or Nop if none was
// attached.
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return Nop
	}
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return Nop
}

// WithLogger attaches logger to ctx for downstream obslog.FromContext
// calls, the way resolve.Run's ctx threads through cmd/somc's pipeline.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if logger == nil {
		logger = Nop
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}
