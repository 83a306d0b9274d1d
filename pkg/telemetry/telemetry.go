package telemetry

import (
	"context"
)

// Embedded solkit telemetry api key, set at release time via ldflags
var embeddedTelemetryApiKey string

// Client defines the interface for telemetry operations
type Client interface {
	// AddMetric emits a single metric
	AddMetric(ctx context.Context, metric Metric) error
	// Close flushes pending metrics and releases resources
	Close() error
}

type clientContextKey struct{}

// ContextWithClient returns a new context with the telemetry client
func ContextWithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

// ClientFromContext retrieves the telemetry client from context
func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(clientContextKey{}).(Client)
	return client, ok
}

// Enabled resolves the effective opt-in. --disable-telemetry always wins,
// then --enable-telemetry, then the project's telemetry_enabled setting.
func Enabled(projectOptIn, enableFlag, disableFlag bool) bool {
	if disableFlag {
		return false
	}
	return enableFlag || projectOptIn
}
