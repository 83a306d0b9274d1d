package buildconfig

import (
	"math"

	"github.com/blang/semver/v4"
	"github.com/google/uuid"
)

// Validate checks the configuration invariants on an in-memory value.
// Parse already runs these checks, so a freshly loaded configuration is valid.
func (c *BuildConfiguration) Validate() error {
	var col collector
	c.validate(&col)
	return col.err()
}

func (c *BuildConfiguration) validate(col *collector) {
	if len(c.Networks) == 0 {
		col.add("networks", 0, "must declare at least one network")
	}
	for _, name := range c.NetworkNames() {
		c.Networks[name].validate(col, "networks."+name)
	}

	if c.ContractsDirectory == "" {
		col.add("contracts_directory", 0, "is required")
	}
	if c.BuildOutputDirectory == "" {
		col.add("build_output_directory", 0, "is required")
	}

	c.Compiler.validate(col)

	if c.Project.ProjectUUID != "" {
		if _, err := uuid.Parse(c.Project.ProjectUUID); err != nil {
			col.add("project.project_uuid", 0, "must be a UUID: %v", err)
		}
	}
}

func (n NetworkProfile) validate(col *collector, path string) {
	if n.Host == "" {
		col.add(path+".host", 0, "is required")
	}
	if n.Port < 1 || n.Port > math.MaxUint16 {
		col.add(path+".port", 0, "port must be an integer between 1 and 65535, got %d", n.Port)
	}
	if n.NetworkID == "" {
		col.add(path+".network_id", 0, "is required")
	}
	if n.GasLimit == 0 {
		col.add(path+".gas_limit", 0, "gas_limit must be an integer greater than 0")
	}
}

func (cc CompilerConfig) validate(col *collector) {
	if cc.Name == "" {
		col.add("compiler.name", 0, "must not be empty")
	}
	if cc.Version == "" {
		col.add("compiler.version", 0, "is required")
	} else if _, err := semver.Parse(cc.Version); err != nil {
		col.add("compiler.version", 0, "must be a semantic version (e.g. 0.8.0), got %q: %v", cc.Version, err)
	}
	if cc.Optimizer.Runs < 0 {
		col.add("compiler.optimizer.runs", 0, "runs must be an integer greater than or equal to 0, got %d", cc.Optimizer.Runs)
	}
}
