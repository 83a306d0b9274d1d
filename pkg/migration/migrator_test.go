package migration

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Layr-Labs/solkit-cli/pkg/common/logger"

	"gopkg.in/yaml.v3"
)

// helper to parse YAML into *yaml.Node
func testNode(t *testing.T, input string) *yaml.Node {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	// unwrap DocumentNode
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return &node
}

func TestResolveNode(t *testing.T) {
	src := `
version: 0.0.1
networks:
  development:
    port: 8545
list:
  - a
  - b
`
	node := testNode(t, src)

	if vn := ResolveNode(node, []string{"version"}); vn == nil || vn.Value != "0.0.1" {
		t.Error("ResolveNode version failed")
	}
	if pn := ResolveNode(node, []string{"networks", "development", "port"}); pn == nil || pn.Value != "8545" {
		t.Error("ResolveNode networks.development.port failed")
	}
	if ln := ResolveNode(node, []string{"list", "1"}); ln == nil || ln.Value != "b" {
		t.Error("ResolveNode list[1] failed")
	}
	if ResolveNode(node, []string{"list", "7"}) != nil {
		t.Error("expected nil for out of range index")
	}
	if ResolveNode(node, []string{"version", "major"}) != nil {
		t.Error("expected nil when descending into a scalar")
	}
}

func TestCloneNode(t *testing.T) {
	src := `key: orig`
	n := testNode(t, src)
	clone := CloneNode(n)

	clone.Content[1].Value = "new"

	if ov := ResolveNode(n, []string{"key"}); ov == nil || ov.Value != "orig" {
		t.Error("CloneNode did not deep copy")
	}
}

func TestPatchEngine_Apply(t *testing.T) {
	oldDef := testNode(t, "compiler:\n  version: 0.8.0\nparam: old\n")
	newDef := testNode(t, "compiler:\n  name: solc\n  version: 0.8.20\nparam: new\nextra: added\n")
	user := testNode(t, "compiler:\n  version: 0.8.19\nparam: old\nlegacy: true\n")

	engine := PatchEngine{
		Old:  oldDef,
		New:  newDef,
		User: user,
		Rules: []PatchRule{
			// unchanged default is replaced
			{Path: []string{"param"}, Condition: IfUnchanged{}},
			// customised value is kept
			{Path: []string{"compiler", "version"}, Condition: IfUnchanged{}},
			// missing key is inserted
			{Path: []string{"compiler", "name"}, Condition: IfUnchanged{}},
			{
				Path: []string{"extra"},
				Transform: func(n *yaml.Node) *yaml.Node {
					n.Value = strings.ToUpper(n.Value)
					return n
				},
			},
			{Path: []string{"legacy"}, Remove: true},
		},
	}
	if err := engine.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	checks := map[string]string{
		"param":            "new",
		"compiler.version": "0.8.19",
		"compiler.name":    "solc",
		"extra":            "ADDED",
	}
	for path, want := range checks {
		got := ResolveNode(user, strings.Split(path, "."))
		if got == nil || got.Value != want {
			t.Errorf("%s: expected %q, got %v", path, want, got)
		}
	}
	if ResolveNode(user, []string{"legacy"}) != nil {
		t.Error("expected legacy to be removed")
	}
}

func TestPatchEngine_EmptyPath(t *testing.T) {
	engine := PatchEngine{User: testNode(t, "a: 1"), Rules: []PatchRule{{}}}
	if err := engine.Apply(); err == nil {
		t.Error("expected error for empty rule path")
	}
}

func TestRenameKey(t *testing.T) {
	user := testNode(t, "contracts_build_directory: ./build\nnetworks:\n  development:\n    gas: 100\n")

	if !RenameKey(user, []string{"contracts_build_directory"}, "build_output_directory") {
		t.Fatal("expected rename to succeed")
	}
	if !RenameKey(user, []string{"networks", "development", "gas"}, "gas_limit") {
		t.Fatal("expected nested rename to succeed")
	}
	if RenameKey(user, []string{"missing"}, "other") {
		t.Error("expected no-op for missing key")
	}

	out, err := yaml.Marshal(user)
	if err != nil {
		t.Fatal(err)
	}
	want := "build_output_directory: ./build\nnetworks:\n    development:\n        gas_limit: 100\n"
	if string(out) != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenameKey_TargetExists(t *testing.T) {
	user := testNode(t, "gas: 1\ngas_limit: 2\n")
	if RenameKey(user, []string{"gas"}, "gas_limit") {
		t.Error("expected rename to refuse an existing target key")
	}
}

func step(from, to string) MigrationStep {
	return MigrationStep{
		From:    from,
		To:      to,
		OldYAML: []byte("version: " + from),
		NewYAML: []byte("version: " + to),
		Apply: func(user, _, _ *yaml.Node) (*yaml.Node, error) {
			ResolveNode(user, []string{"version"}).Value = to
			return user, nil
		},
	}
}

func TestMigrateNode_Chain(t *testing.T) {
	chain := []MigrationStep{step("0.0.1", "0.0.2"), step("0.0.2", "0.0.3")}

	node := testNode(t, "version: 0.0.1")
	out, err := MigrateNode(node, "0.0.1", "0.0.3", chain)
	if err != nil {
		t.Fatalf("MigrateNode failed: %v", err)
	}
	if v := ResolveNode(out, []string{"version"}); v.Value != "0.0.3" {
		t.Errorf("expected 0.0.3, got %s", v.Value)
	}

	// stops at the requested target
	node = testNode(t, "version: 0.0.1")
	out, err = MigrateNode(node, "0.0.1", "0.0.2", chain)
	if err != nil {
		t.Fatalf("MigrateNode failed: %v", err)
	}
	if v := ResolveNode(out, []string{"version"}); v.Value != "0.0.2" {
		t.Errorf("expected 0.0.2, got %s", v.Value)
	}
}

func TestMigrateNode_Errors(t *testing.T) {
	chain := []MigrationStep{step("0.0.1", "0.0.2")}

	if _, err := MigrateNode(testNode(t, "version: 0.0.3"), "0.0.3", "0.0.2", chain); err == nil {
		t.Error("expected error for a document newer than the target")
	}
	if _, err := MigrateNode(testNode(t, "version: 0.0.0"), "0.0.0", "0.0.2", chain); err == nil {
		t.Error("expected error for an incomplete chain")
	}

	failing := []MigrationStep{{From: "0.0.1", To: "0.0.2", Apply: func(_, _, _ *yaml.Node) (*yaml.Node, error) {
		return nil, errors.New("boom")
	}}}
	if _, err := MigrateNode(testNode(t, "version: 0.0.1"), "0.0.1", "0.0.2", failing); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected step error, got %v", err)
	}
}

func TestMigrateNode_AlreadyUpToDate(t *testing.T) {
	node := testNode(t, `version: 0.0.2`)
	_, err := MigrateNode(node, "0.0.2", "0.0.2", nil)
	if !errors.Is(err, ErrAlreadyUpToDate) {
		t.Error("Expected ErrAlreadyUpToDate")
	}
}

func TestMigrateYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	if err := os.WriteFile(path, []byte("# keep me\nversion: 0.0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	log := logger.NewNoopLogger()

	if err := MigrateYaml(log, path, "0.0.2", []MigrationStep{step("0.0.1", "0.0.2")}); err != nil {
		t.Fatalf("MigrateYaml failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# keep me\nversion: 0.0.2\n" {
		t.Errorf("unexpected output:\n%s", data)
	}
	if !log.Contains("Migrating") {
		t.Error("expected a migration log line")
	}

	if err := MigrateYaml(log, path, "0.0.2", nil); !errors.Is(err, ErrAlreadyUpToDate) {
		t.Errorf("expected ErrAlreadyUpToDate, got %v", err)
	}
}

func TestMigrateYaml_NoVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	if err := os.WriteFile(path, []byte("networks: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := MigrateYaml(logger.NewNoopLogger(), path, "0.0.2", nil); err == nil {
		t.Error("expected error for a document without version")
	}
}
