package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromFallsBackWithoutRequestLogger(t *testing.T) {
	fallback := zap.NewNop()
	if got := From(context.Background(), fallback); got != fallback {
		t.Errorf("Expected fallback logger, got %v", got)
	}
}

func TestIntoFrom(t *testing.T) {
	reqLog := zap.NewNop().With(zap.String("request_id", "abc"))
	ctx := Into(context.Background(), reqLog)
	if got := From(ctx, zap.NewNop()); got != reqLog {
		t.Errorf("Expected request logger, got %v", got)
	}
}

func TestNewLocalAndProd(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		l, err := New("bet-service", env)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", env, err)
		}
		_ = l.Sync()
	}
}
