package telemetry

import (
	"context"
	"os"

	"github.com/Layr-Labs/solkit-cli/pkg/common"

	"github.com/posthog/posthog-go"
)

const (
	apiKeyEnv   = "SOLKIT_POSTHOG_KEY"
	endpointEnv = "SOLKIT_POSTHOG_ENDPOINT"

	defaultEndpoint = "https://us.i.posthog.com"

	// anonymousID is the distinct id used outside of an initialised project
	anonymousID = "anonymous"
)

// PostHogClient implements the Client interface using PostHog
type PostHogClient struct {
	namespace      string
	client         posthog.Client
	appEnvironment *common.AppEnvironment
}

// NewPostHogClient creates a PostHog client. It returns nil, nil when no API
// key is configured so callers can fall back to a NoopClient.
func NewPostHogClient(environment *common.AppEnvironment, namespace string) (*PostHogClient, error) {
	apiKey := getPostHogAPIKey()
	if apiKey == "" {
		return nil, nil
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: getPostHogEndpoint()})
	if err != nil {
		return nil, err
	}
	return &PostHogClient{
		namespace:      namespace,
		client:         client,
		appEnvironment: environment,
	}, nil
}

func (c *PostHogClient) AddMetric(_ context.Context, metric Metric) error {
	if c == nil || c.client == nil {
		return nil
	}

	props := posthog.NewProperties().
		Set("name", metric.Name).
		Set("value", metric.Value)
	for k, v := range metric.Dimensions {
		props.Set(k, v)
	}

	return c.client.Enqueue(posthog.Capture{
		DistinctId: c.distinctID(),
		Event:      c.namespace,
		Properties: props,
	})
}

// Close flushes queued events. Errors are swallowed so telemetry never fails a command.
func (c *PostHogClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Close()
	return nil
}

func (c *PostHogClient) distinctID() string {
	if c.appEnvironment == nil || c.appEnvironment.ProjectUUID == "" {
		return anonymousID
	}
	return c.appEnvironment.ProjectUUID
}

// getPostHogAPIKey prefers the environment over the key embedded at build time
func getPostHogAPIKey() string {
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key
	}
	return embeddedTelemetryApiKey
}

func getPostHogEndpoint() string {
	if endpoint := os.Getenv(endpointEnv); endpoint != "" {
		return endpoint
	}
	return defaultEndpoint
}
