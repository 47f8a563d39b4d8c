package requestctx

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// Logger tags log lines with the request id carried by ctx.
func Logger(ctx context.Context, base logrus.FieldLogger) logrus.FieldLogger {
	if id := GetRequestID(ctx); id != "" {
		return base.WithField("requestId", id)
	}
	return base
}
