package buildconfig

import (
	"fmt"
	"math"
	"os"

	"github.com/Layr-Labs/solkit-cli/config/buildconfigs"
	"gopkg.in/yaml.v3"
)

// Top-level and nested key sets accepted by the current document version
var (
	documentKeys  = []string{"version", "project", "networks", "contracts_directory", "build_output_directory", "compiler"}
	projectKeys   = []string{"name", "project_uuid", "telemetry_enabled"}
	networkKeys   = []string{"host", "port", "network_id", "gas_limit", "gas_price"}
	compilerKeys  = []string{"name", "version", "optimizer"}
	optimizerKeys = []string{"enabled", "runs"}
)

// Parse decodes and validates a build document. Either every field is valid
// and a configuration is returned, or a ValidationErrors listing every
// violation is returned and the configuration is nil.
func Parse(data []byte) (*BuildConfiguration, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	return parseDocument(doc)
}

// ParseWithEnv is Parse with ${NAME} references in scalar values replaced
// from the environment. Expansion happens after the YAML is parsed, so a
// variable's value is never read as YAML structure.
func ParseWithEnv(data []byte) (*BuildConfiguration, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	expandNode(doc, os.Getenv)
	return parseDocument(doc)
}

func decodeDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ValidationErrors{{Constraint: fmt.Sprintf("malformed YAML: %v", err)}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ValidationErrors{{Constraint: "document is empty"}}
	}
	return &doc, nil
}

func parseDocument(doc *yaml.Node) (*BuildConfiguration, error) {
	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, ValidationErrors{{Constraint: "document must be a mapping", Line: root.Line}}
	}

	d := &decoder{collector: collector{lines: make(map[string]int)}}

	// Version gates the rest of the shape
	if err := d.version(root); err != nil {
		return nil, err
	}

	cfg := d.document(root)
	cfg.validate(&d.collector)
	if err := d.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type decoder struct {
	collector
}

func (d *decoder) version(root *yaml.Node) error {
	node := deref(childByKey(root, "version"))
	v, ok := d.str(node, "version", true)
	if !ok {
		return d.err()
	}
	if v == buildconfigs.LatestVersion {
		return nil
	}
	if _, known := buildconfigs.BuildConfigYamls[v]; known {
		d.add("version", node.Line, "document version %s is outdated (latest %s), run `solkit config migrate`", v, buildconfigs.LatestVersion)
	} else {
		d.add("version", node.Line, "unsupported document version %q (latest %s)", v, buildconfigs.LatestVersion)
	}
	return d.err()
}

func (d *decoder) document(root *yaml.Node) *BuildConfiguration {
	fields := d.fields(root, "", documentKeys)
	cfg := &BuildConfiguration{
		Version:  buildconfigs.LatestVersion,
		Networks: make(map[string]NetworkProfile),
	}

	if n := fields["project"]; !isMissing(n) {
		cfg.Project = d.project(n)
	}

	cfg.Networks = d.networks(fields["networks"])
	cfg.ContractsDirectory, _ = d.str(fields["contracts_directory"], "contracts_directory", true)
	cfg.BuildOutputDirectory, _ = d.str(fields["build_output_directory"], "build_output_directory", true)
	cfg.Compiler = d.compiler(fields["compiler"])
	return cfg
}

func (d *decoder) project(node *yaml.Node) ProjectConfig {
	fields := d.fields(node, "project", projectKeys)
	var p ProjectConfig
	p.Name, _ = d.str(fields["name"], "project.name", false)
	p.ProjectUUID, _ = d.str(fields["project_uuid"], "project.project_uuid", false)
	p.TelemetryEnabled, _ = d.boolean(fields["telemetry_enabled"], "project.telemetry_enabled")
	return p
}

func (d *decoder) networks(node *yaml.Node) map[string]NetworkProfile {
	out := make(map[string]NetworkProfile)
	node = deref(node)
	if isMissing(node) {
		d.add("networks", 0, "is required and must declare at least one network")
		return out
	}
	if node.Kind != yaml.MappingNode {
		d.add("networks", node.Line, "must be a mapping of network name to profile")
		return out
	}
	d.lines["networks"] = node.Line
	if len(node.Content) == 0 {
		d.add("networks", node.Line, "must declare at least one network")
		return out
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		name := key.Value
		path := "networks." + name
		if key.Kind != yaml.ScalarNode || name == "" {
			d.add("networks", key.Line, "network names must be non-empty strings")
			continue
		}
		if seen[name] {
			d.add(path, key.Line, "network names must be unique, %q is declared more than once", name)
			continue
		}
		seen[name] = true
		d.lines[path] = key.Line
		if n, ok := d.network(val, path); ok {
			out[name] = n
		}
	}
	return out
}

func (d *decoder) network(node *yaml.Node, path string) (NetworkProfile, bool) {
	var n NetworkProfile
	node = deref(node)
	if isMissing(node) || node.Kind != yaml.MappingNode {
		d.add(path, lineOf(node), "must be a mapping with host, port, network_id, gas_limit and gas_price")
		return n, false
	}
	fields := d.fields(node, path, networkKeys)

	n.Host, _ = d.str(fields["host"], path+".host", true)

	if port, ok := d.integer(fields["port"], path+".port", true); ok {
		if port < 1 || port > math.MaxUint16 {
			d.add(path+".port", 0, "port must be an integer between 1 and 65535, got %d", port)
		} else {
			n.Port = int(port)
		}
	} else if fields["port"] != nil {
		d.replace(path+".port", "port must be an integer between 1 and 65535")
	}

	n.NetworkID, _ = d.str(fields["network_id"], path+".network_id", true)

	if gas, ok := d.unsigned(fields["gas_limit"], path+".gas_limit"); ok {
		if gas == 0 {
			d.add(path+".gas_limit", 0, "gas_limit must be an integer greater than 0, got %d", gas)
		} else {
			n.GasLimit = gas
		}
	}

	n.GasPrice, _ = d.unsigned(fields["gas_price"], path+".gas_price")
	return n, true
}

func (d *decoder) compiler(node *yaml.Node) CompilerConfig {
	c := CompilerConfig{
		Name:      DefaultCompilerName,
		Optimizer: OptimizerConfig{Runs: DefaultOptimizerRuns},
	}
	node = deref(node)
	if isMissing(node) {
		d.add("compiler", 0, "is required and must set at least compiler.version")
		return c
	}
	if node.Kind != yaml.MappingNode {
		d.add("compiler", node.Line, "must be a mapping with name, version and optimizer")
		return c
	}
	d.lines["compiler"] = node.Line
	fields := d.fields(node, "compiler", compilerKeys)

	if name, ok := d.str(fields["name"], "compiler.name", false); ok && name != "" {
		c.Name = name
	}
	c.Version, _ = d.str(fields["version"], "compiler.version", true)

	if opt := deref(fields["optimizer"]); !isMissing(opt) {
		if opt.Kind != yaml.MappingNode {
			d.add("compiler.optimizer", opt.Line, "must be a mapping with enabled and runs")
			return c
		}
		d.lines["compiler.optimizer"] = opt.Line
		of := d.fields(opt, "compiler.optimizer", optimizerKeys)
		c.Optimizer.Enabled, _ = d.boolean(of["enabled"], "compiler.optimizer.enabled")
		if runs, ok := d.integer(of["runs"], "compiler.optimizer.runs", false); ok {
			if runs < 0 || runs > math.MaxInt {
				d.add("compiler.optimizer.runs", 0, "runs must be an integer between 0 and %d, got %d", math.MaxInt, runs)
			} else {
				c.Optimizer.Runs = int(runs)
			}
		}
	}
	return c
}

// fields indexes a mapping node by key, flagging unknown and duplicate keys
func (d *decoder) fields(node *yaml.Node, path string, known []string) map[string]*yaml.Node {
	out := make(map[string]*yaml.Node)
	node = deref(node)
	if node == nil {
		return out
	}
	if node.Kind != yaml.MappingNode {
		d.add(path, node.Line, "must be a mapping")
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		field := join(path, key.Value)
		if !contains(known, key.Value) {
			d.add(field, key.Line, "unknown field")
			continue
		}
		if _, dup := out[key.Value]; dup {
			d.add(field, key.Line, "duplicate key")
			continue
		}
		d.lines[field] = key.Line
		out[key.Value] = deref(val)
	}
	return out
}

func (d *decoder) str(node *yaml.Node, field string, required bool) (string, bool) {
	node = deref(node)
	if isMissing(node) {
		if required {
			d.add(field, 0, "is required")
		}
		return "", false
	}
	if node.Kind != yaml.ScalarNode {
		d.add(field, node.Line, "must be a string")
		return "", false
	}
	if required && node.Value == "" {
		d.add(field, node.Line, "must not be empty")
		return "", false
	}
	return node.Value, true
}

func (d *decoder) integer(node *yaml.Node, field string, required bool) (int64, bool) {
	node = deref(node)
	if isMissing(node) {
		if required {
			d.add(field, 0, "is required")
		}
		return 0, false
	}
	var v int64
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" || node.Decode(&v) != nil {
		d.add(field, node.Line, "must be an integer, got %q", node.Value)
		return 0, false
	}
	return v, true
}

// unsigned decodes a non-negative integer that may use the full uint64 range
func (d *decoder) unsigned(node *yaml.Node, field string) (uint64, bool) {
	node = deref(node)
	if isMissing(node) {
		d.add(field, 0, "is required")
		return 0, false
	}
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		d.add(field, node.Line, "must be an integer, got %q", node.Value)
		return 0, false
	}
	var v uint64
	if node.Decode(&v) != nil {
		d.add(field, node.Line, "must be an integer between 0 and %d, got %s", uint64(math.MaxUint64), node.Value)
		return 0, false
	}
	return v, true
}

func (d *decoder) boolean(node *yaml.Node, field string) (bool, bool) {
	node = deref(node)
	if isMissing(node) {
		return false, false
	}
	var v bool
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!bool" || node.Decode(&v) != nil {
		d.add(field, node.Line, "must be true or false, got %q", node.Value)
		return false, false
	}
	return v, true
}

// replace rewrites the constraint of an already recorded violation
func (d *decoder) replace(field, constraint string) {
	for _, e := range d.errs {
		if e.Field == field {
			e.Constraint = constraint
		}
	}
}

// deref follows alias nodes to the anchored node they point at
func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func childByKey(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func isMissing(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func lineOf(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	return node.Line
}

func join(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
