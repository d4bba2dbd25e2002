package tolerant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/metrics"
)

func failures(op, why string) float64 {
	return testutil.ToFloat64(metrics.ExternalCallFailuresTotal.WithLabelValues(op, why))
}

func TestCall_Success(t *testing.T) {
	got := Call(context.Background(), "t_ok", time.Second, func(context.Context) ([]string, error) {
		return []string{"a"}, nil
	})
	if len(got) != 1 {
		t.Errorf("got %v", got)
	}
}

func TestCall_ErrorBecomesZero(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))
	before := failures("t_err", ReasonError)

	got := Call(ctx, "t_err", 0, func(context.Context) ([]string, error) {
		return []string{"partial"}, errors.New("boom")
	})
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if failures("t_err", ReasonError)-before != 1 {
		t.Error("failure not counted")
	}
	if logs.Len() != 1 || logs.All()[0].ContextMap()["operation"] != "t_err" {
		t.Errorf("logs = %v", logs.All())
	}
}

func TestCall_Timeout(t *testing.T) {
	before := failures("t_slow", ReasonTimeout)
	start := time.Now()
	got := Call(context.Background(), "t_slow", 20*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 42, ctx.Err()
	})
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout not applied")
	}
	if failures("t_slow", ReasonTimeout)-before != 1 {
		t.Error("timeout not counted")
	}
}

func TestCall_Panic(t *testing.T) {
	before := failures("t_panic", ReasonPanic)
	got := Call(context.Background(), "t_panic", 0, func(context.Context) (map[string]int, error) {
		panic("nil map somewhere")
	})
	if got != nil {
		t.Errorf("got %v", got)
	}
	if failures("t_panic", ReasonPanic)-before != 1 {
		t.Error("panic not counted")
	}
}
