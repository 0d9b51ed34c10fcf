package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type (
	loggerKey      struct{}
	correlationKey struct{}
)

// correlation identifies the request, the shopping session and the signed-in
// customer behind a log entry. Each With* call stores a fresh copy.
type correlation struct {
	requestID  string
	sessionID  string
	customerID string
}

func correlationOf(ctx context.Context) correlation {
	c, _ := ctx.Value(correlationKey{}).(correlation)
	return c
}

func withCorrelation(ctx context.Context, update func(*correlation)) context.Context {
	c := correlationOf(ctx)
	update(&c)
	return context.WithValue(ctx, correlationKey{}, c)
}

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID records the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.requestID = requestID })
}

// WithSessionID records the shopping session ID in ctx
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.sessionID = sessionID })
}

// WithCustomerID records the customer ID in ctx
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.customerID = customerID })
}

func GetRequestID(ctx context.Context) string  { return correlationOf(ctx).requestID }
func GetSessionID(ctx context.Context) string  { return correlationOf(ctx).sessionID }
func GetCustomerID(ctx context.Context) string { return correlationOf(ctx).customerID }

// Fields returns the correlation fields found in ctx: trace and span IDs of
// the active span, then request, session and customer IDs when present.
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	c := correlationOf(ctx)
	for _, f := range []struct{ key, value string }{
		{"request_id", c.requestID},
		{"session_id", c.sessionID},
		{"customer_id", c.customerID},
	} {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}
	return fields
}

// ContextLogger logs through the logger of a context, adding its
// correlation fields to every entry.
// Usage: logger.L(ctx).Warn("postal cache write failed", zap.Error(err))
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger for ctx
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// With returns a child ContextLogger carrying extra fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) entry() *zap.Logger {
	if fields := Fields(cl.ctx); len(fields) > 0 {
		return cl.logger.With(fields...)
	}
	return cl.logger
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.entry().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.entry().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.entry().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.entry().Error(msg, fields...) }
