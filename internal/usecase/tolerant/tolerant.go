// Package tolerant runs external calls that must never fail their caller.
package tolerant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/metrics"
)

// Failure reasons recorded in metrics.
const (
	ReasonError    = "error"
	ReasonTimeout  = "timeout"
	ReasonCanceled = "canceled"
	ReasonPanic    = "panic"
)

// Call runs fn with its own timeout (none when timeout <= 0). Errors, panics
// and deadlines are logged at warn, counted and turned into the zero value of T.
func Call[T any](ctx context.Context, op string, timeout time.Duration, fn func(context.Context) (T, error)) (out T) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			absorb(ctx, op, ReasonPanic, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := fn(ctx)
	if err != nil {
		absorb(ctx, op, reason(err), err)
		var zero T
		return zero
	}
	return res
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	default:
		return ReasonError
	}
}

func absorb(ctx context.Context, op, why string, err error) {
	metrics.ExternalCallFailuresTotal.WithLabelValues(op, why).Inc()
	logger.FromContext(ctx).Warn("external call absorbed",
		zap.String("operation", op),
		zap.String("reason", why),
		zap.Error(err),
	)
}
