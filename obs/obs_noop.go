//go:build nometrics

package obs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

func ObserveQuery(string, time.Duration) {}

func StartSpan(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, func()) {
	return ctx, func() {}
}

func RecordSignalLookup(string, time.Duration, bool) {}

func SetSignalAvailable(string, bool) {}

func InitTracer(string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
