package buildconfig

import (
	"fmt"
	"sort"
)

// DefaultCompilerName is used when the compiler block omits a name
const DefaultCompilerName = "solc"

// DefaultOptimizerRuns matches solc's own default
const DefaultOptimizerRuns = 200

// BuildConfiguration is the parsed, validated form of config/build.yaml
type BuildConfiguration struct {
	Version              string                    `json:"version" yaml:"version"`
	Project              ProjectConfig             `json:"project,omitempty" yaml:"project,omitempty"`
	Networks             map[string]NetworkProfile `json:"networks" yaml:"networks"`
	ContractsDirectory   string                    `json:"contracts_directory" yaml:"contracts_directory"`
	BuildOutputDirectory string                    `json:"build_output_directory" yaml:"build_output_directory"`
	Compiler             CompilerConfig            `json:"compiler" yaml:"compiler"`
}

// ProjectConfig is optional project metadata
type ProjectConfig struct {
	Name             string `json:"name,omitempty" yaml:"name,omitempty"`
	ProjectUUID      string `json:"project_uuid,omitempty" yaml:"project_uuid,omitempty"`
	TelemetryEnabled bool   `json:"telemetry_enabled,omitempty" yaml:"telemetry_enabled,omitempty"`
}

// NetworkProfile holds connection parameters for one deployment network
type NetworkProfile struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	NetworkID string `json:"network_id" yaml:"network_id"`
	GasLimit  uint64 `json:"gas_limit" yaml:"gas_limit"`
	GasPrice  uint64 `json:"gas_price" yaml:"gas_price"`
}

// CompilerConfig selects the compiler and its settings
type CompilerConfig struct {
	Name      string          `json:"name" yaml:"name"`
	Version   string          `json:"version" yaml:"version"`
	Optimizer OptimizerConfig `json:"optimizer" yaml:"optimizer"`
}

// OptimizerConfig mirrors solc's optimizer settings
type OptimizerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Runs    int  `json:"runs" yaml:"runs"`
}

// AnyNetworkID matches whatever network the node reports
const AnyNetworkID = "*"

// RPCURL returns the HTTP JSON-RPC endpoint of the network
func (n NetworkProfile) RPCURL() string {
	return fmt.Sprintf("http://%s:%d", n.Host, n.Port)
}

// MatchesNetworkID reports whether id satisfies the profile's network_id
func (n NetworkProfile) MatchesNetworkID(id string) bool {
	return n.NetworkID == AnyNetworkID || n.NetworkID == id
}

// EffectiveRuns returns the runs value and whether the compiler will use it.
// Runs are kept when the optimizer is disabled but have no effect.
func (o OptimizerConfig) EffectiveRuns() (int, bool) {
	return o.Runs, o.Enabled
}

// NetworkNames returns the configured network names in sorted order
func (c *BuildConfiguration) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Network looks up a network profile by name
func (c *BuildConfiguration) Network(name string) (NetworkProfile, bool) {
	n, ok := c.Networks[name]
	return n, ok
}

// Clone returns a deep copy so callers can't mutate a shared configuration
func (c *BuildConfiguration) Clone() *BuildConfiguration {
	if c == nil {
		return nil
	}
	out := *c
	out.Networks = make(map[string]NetworkProfile, len(c.Networks))
	for name, n := range c.Networks {
		out.Networks[name] = n
	}
	return &out
}
