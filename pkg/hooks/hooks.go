package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const namespace = "solkit"

// commands that run before a project exists
var noProjectCommands = map[string]bool{
	"init":    true,
	"version": true,
}

type ActionChain struct {
	Processors []func(action cli.ActionFunc) cli.ActionFunc
}

// NewActionChain creates a new action chain
func NewActionChain() *ActionChain {
	return &ActionChain{
		Processors: make([]func(action cli.ActionFunc) cli.ActionFunc, 0),
	}
}

// Use appends a new processor to the chain
func (ac *ActionChain) Use(processor func(action cli.ActionFunc) cli.ActionFunc) {
	ac.Processors = append(ac.Processors, processor)
}

// Wrap applies the processors so the first one registered runs outermost
func (ac *ActionChain) Wrap(action cli.ActionFunc) cli.ActionFunc {
	for i := len(ac.Processors) - 1; i >= 0; i-- {
		action = ac.Processors[i](action)
	}
	return action
}

// ApplyMiddleware wraps every action in the command tree
func ApplyMiddleware(commands []*cli.Command, chain *ActionChain) {
	for _, cmd := range commands {
		if cmd.Action != nil {
			cmd.Action = chain.Wrap(cmd.Action)
		}
		if len(cmd.Subcommands) > 0 {
			ApplyMiddleware(cmd.Subcommands, chain)
		}
	}
}

// collectFlagValues records the flags set on the invocation. Non-boolean
// values are reported as "set" so paths and --set payloads stay local.
func collectFlagValues(ctx *cli.Context) map[string]string {
	flags := make(map[string]string)

	var all []cli.Flag
	if ctx.App != nil {
		all = append(all, ctx.App.Flags...)
	}
	if ctx.Command != nil {
		all = append(all, ctx.Command.Flags...)
	}

	for _, flag := range all {
		name := flag.Names()[0]
		if !ctx.IsSet(name) {
			continue
		}
		if b, ok := ctx.Value(name).(bool); ok {
			flags[name] = strconv.FormatBool(b)
		} else {
			flags[name] = "set"
		}
	}
	return flags
}

type telemetryPreferenceKey struct{}

// projectSettings are the project block values hooks need before the
// document is fully validated by the command itself
type projectSettings struct {
	UUID             string
	TelemetryEnabled bool
}

// readProjectSettings tolerates missing or invalid documents
func readProjectSettings(path string) projectSettings {
	var settings projectSettings
	if path == "" {
		return settings
	}
	node, err := common.LoadYAML(path)
	if err != nil || len(node.Content) == 0 {
		return settings
	}
	project := common.GetChildByKey(node.Content[0], "project")
	if id := common.GetChildByKey(project, "project_uuid"); id != nil && id.Kind == yaml.ScalarNode {
		settings.UUID = id.Value
	}
	if opt := common.GetChildByKey(project, "telemetry_enabled"); opt != nil {
		var enabled bool
		if opt.Decode(&enabled) == nil {
			settings.TelemetryEnabled = enabled
		}
	}
	return settings
}

// WithAppEnvironment stores the AppEnvironment and the effective telemetry
// preference in the context. It never fails; outside a project both are anonymous.
func WithAppEnvironment(cCtx *cli.Context) error {
	var path string
	if !noProjectCommands[cCtx.Args().First()] {
		path, _, _ = common.ResolveConfigPath(cCtx)
	}
	settings := readProjectSettings(path)

	ctx := common.WithAppEnvironment(cCtx.Context, common.NewAppEnvironment(runtime.GOOS, runtime.GOARCH, settings.UUID))
	enabled := telemetry.Enabled(settings.TelemetryEnabled, cCtx.Bool("enable-telemetry"), cCtx.Bool("disable-telemetry"))
	cCtx.Context = context.WithValue(ctx, telemetryPreferenceKey{}, enabled)
	return nil
}

func telemetryEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(telemetryPreferenceKey{}).(bool)
	return enabled
}

// setupTelemetry returns the client already in the context, a PostHog client
// when the invocation opted in, and a NoopClient otherwise
func setupTelemetry(ctx *cli.Context) telemetry.Client {
	if client, ok := telemetry.ClientFromContext(ctx.Context); ok {
		return client
	}
	if !telemetryEnabled(ctx.Context) {
		return telemetry.NewNoopClient()
	}

	appEnv, ok := common.AppEnvironmentFromContext(ctx.Context)
	if !ok {
		return telemetry.NewNoopClient()
	}

	phClient, err := telemetry.NewPostHogClient(appEnv, namespace)
	if err != nil || phClient == nil {
		if err != nil {
			common.LoggerFromContext(ctx.Context).Debug("telemetry disabled: %v", err)
		}
		return telemetry.NewNoopClient()
	}
	return phClient
}

// WithMetricEmission runs the action, then emits the collected metrics
func WithMetricEmission(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		err := action(ctx)

		client := setupTelemetry(ctx)
		ctx.Context = telemetry.ContextWithClient(ctx.Context, client)
		emitTelemetryMetrics(ctx, err)

		return err
	}
}

func emitTelemetryMetrics(ctx *cli.Context, actionError error) {
	metrics, err := telemetry.MetricsFromContext(ctx.Context)
	if err != nil {
		return
	}
	if ctx.Command != nil {
		metrics.Properties["command"] = ctx.Command.HelpName
	}
	// command-level flags are only visible from the action's context
	for k, v := range collectFlagValues(ctx) {
		metrics.Properties[k] = v
	}

	result := "Success"
	dimensions := map[string]string{}
	if actionError != nil {
		result = "Failure"
		dimensions["error"] = errorKind(actionError)
	}
	metrics.AddMetricWithDimensions(result, 1, dimensions)
	metrics.AddMetric("DurationMilliseconds", float64(time.Since(metrics.StartTime).Milliseconds()))

	client, ok := telemetry.ClientFromContext(ctx.Context)
	if !ok {
		return
	}
	defer client.Close()

	log := common.LoggerFromContext(ctx.Context)
	for _, metric := range metrics.Snapshot() {
		if err := client.AddMetric(ctx.Context, metric); err != nil {
			log.Debug("failed to add metric %s: %v", metric.Name, err)
		}
	}
}

// errorKind reports the type of the innermost error, never its message
func errorKind(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}

// LoadEnvFile loads .env from the working directory and, when different, from
// the project root. Existing environment variables are never overridden.
func LoadEnvFile(cCtx *cli.Context) error {
	if cCtx.Args().First() == "init" {
		return nil
	}

	paths := []string{common.EnvFile}
	if cwd, err := os.Getwd(); err == nil {
		if root, err := common.FindProjectRoot(cwd); err == nil && root != cwd {
			paths = append(paths, filepath.Join(root, common.EnvFile))
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// WithCommandMetricsContext seeds the metrics context with the environment and flags
func WithCommandMetricsContext(ctx *cli.Context) error {
	metrics := telemetry.NewMetricsContext()
	ctx.Context = telemetry.WithMetricsContext(ctx.Context, metrics)

	if appEnv, ok := common.AppEnvironmentFromContext(ctx.Context); ok {
		metrics.Properties["cli_version"] = appEnv.CLIVersion
		metrics.Properties["os"] = appEnv.OS
		metrics.Properties["arch"] = appEnv.Arch
		metrics.Properties["project_uuid"] = appEnv.ProjectUUID
	}

	for k, v := range collectFlagValues(ctx) {
		metrics.Properties[k] = v
	}

	metrics.AddMetric("Count", 1)
	return nil
}
