package common

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func mustNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return &node
}

func TestCloneNode(t *testing.T) {
	node := mustNode(t, "foo: bar\n")
	node.Content[0].HeadComment = "# header"
	clone := CloneNode(node)

	if clone == node {
		t.Fatal("CloneNode returned same pointer")
	}
	clone.Content[0].Content[1].Value = "changed"
	if GetChildByKey(node.Content[0], "foo").Value != "bar" {
		t.Error("CloneNode did not deep copy")
	}
	if clone.Content[0].HeadComment != "# header" {
		t.Errorf("CloneNode did not preserve comments, got %q", clone.Content[0].HeadComment)
	}
}

func TestCloneNode_Nil(t *testing.T) {
	if CloneNode(nil) != nil {
		t.Error("expected nil clone for nil input")
	}
}

func TestGetChildByKey(t *testing.T) {
	root := mustNode(t, "a: 1\nb:\n  c: 2\n").Content[0]

	if n := GetChildByKey(root, "a"); n == nil || n.Value != "1" {
		t.Errorf("expected a=1, got %v", n)
	}
	if n := GetChildByKey(GetChildByKey(root, "b"), "c"); n == nil || n.Value != "2" {
		t.Errorf("expected b.c=2, got %v", n)
	}
	if GetChildByKey(root, "missing") != nil {
		t.Error("expected nil for missing key")
	}
}

func TestGetChildByKey_NilNode(t *testing.T) {
	if GetChildByKey(nil, "a") != nil {
		t.Error("expected nil for nil node")
	}
}

func TestLoadWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	src := "# comment kept\nversion: 0.0.2\nnetworks:\n  development:\n    port: 8545\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	node, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if err := WriteYAML(path, node); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "# comment kept") {
		t.Errorf("comment lost:\n%s", out)
	}
	if !strings.Contains(string(out), "    port: 8545") {
		t.Errorf("expected two-space indentation:\n%s", out)
	}
}

func TestLoadYAML_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("a: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAML(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestYamlToMap(t *testing.T) {
	m, err := YamlToMap([]byte("a:\n  b: 1\nlist:\n  - x: y\n"))
	if err != nil {
		t.Fatalf("YamlToMap failed: %v", err)
	}
	want := map[string]interface{}{
		"a":    map[string]interface{}{"b": 1},
		"list": []interface{}{map[string]interface{}{"x": "y"}},
	}
	if !reflect.DeepEqual(want, m) {
		t.Errorf("got %#v, want %#v", m, want)
	}

	if _, err := YamlToMap([]byte("- a\n- b\n")); err == nil {
		t.Error("expected error for top-level sequence")
	}
}

func TestListYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.yaml")
	if err := os.WriteFile(path, []byte("b: 2\na: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ListYaml(path, &buf); err != nil {
		t.Fatalf("ListYaml failed: %v", err)
	}
	if buf.String() != "b: 2\na: 1\n" {
		t.Errorf("order not preserved, got %q", buf.String())
	}

	txt := filepath.Join(dir, "build.txt")
	if err := os.WriteFile(txt, []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ListYaml(txt, &buf); err == nil {
		t.Error("expected error for non-yaml extension")
	}
}

func TestWriteToPath_ScalarTypes(t *testing.T) {
	doc := mustNode(t, "networks:\n  development:\n    port: 8545\n    host: ganache\n")

	root, err := WriteToPath(doc, []string{"networks", "development", "port"}, "7545")
	if err != nil {
		t.Fatalf("WriteToPath failed: %v", err)
	}
	port := GetChildByKey(GetChildByKey(GetChildByKey(root, "networks"), "development"), "port")
	if port.Value != "7545" || port.Tag != "!!int" {
		t.Errorf("expected int 7545, got %s %q", port.Tag, port.Value)
	}

	if _, err := WriteToPath(doc, []string{"networks", "development", "host"}, `"localhost"`); err != nil {
		t.Fatalf("WriteToPath failed: %v", err)
	}
	host := GetChildByKey(GetChildByKey(GetChildByKey(root, "networks"), "development"), "host")
	if host.Value != "localhost" || host.Tag != "!!str" {
		t.Errorf("expected string localhost, got %s %q", host.Tag, host.Value)
	}
}

func TestWriteToPath_MappingCreation(t *testing.T) {
	doc := mustNode(t, "version: 0.0.2\n")

	root, err := WriteToPath(doc, []string{"compiler", "optimizer", "enabled"}, "false")
	if err != nil {
		t.Fatalf("WriteToPath failed: %v", err)
	}
	var out map[string]interface{}
	if err := root.Decode(&out); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"version": "0.0.2",
		"compiler": map[string]interface{}{
			"optimizer": map[string]interface{}{"enabled": false},
		},
	}
	if !reflect.DeepEqual(want, out) {
		t.Errorf("got %#v, want %#v", out, want)
	}
}

func TestWriteToPath_RejectsMappingLeaf(t *testing.T) {
	doc := mustNode(t, "compiler:\n  version: 0.8.0\n")
	if _, err := WriteToPath(doc, []string{"compiler"}, "solc"); err == nil {
		t.Error("expected error when overwriting a mapping with a scalar")
	}
	if _, err := WriteToPath(doc, []string{"compiler", "version", "major"}, "1"); err == nil {
		t.Error("expected error when descending into a scalar")
	}
}
