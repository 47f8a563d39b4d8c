package requestctx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	ctx := WithRequestID(context.Background(), "req-7")
	if GetRequestID(ctx) != "req-7" {
		t.Fatalf("expected req-7, got %s", GetRequestID(ctx))
	}
	Logger(ctx, base).Info("hello")
	if !strings.Contains(buf.String(), `"requestId":"req-7"`) {
		t.Fatalf("expected request id in log line, got %s", buf.String())
	}

	if Logger(context.Background(), base) != logrus.FieldLogger(base) {
		t.Fatal("expected base logger without a request id")
	}
}
