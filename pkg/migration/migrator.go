package migration

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"

	"github.com/blang/semver/v4"
	"gopkg.in/yaml.v3"
)

// PatchCondition decides whether a rule touches the user's node
type PatchCondition interface {
	// ShouldApply returns true if the userNode should be patched based on oldNode
	ShouldApply(userNode, oldNode *yaml.Node) bool
}

// Available conditions
type Always struct{}
type IfUnchanged struct{}

// Always applies unconditionally
func (Always) ShouldApply(_, _ *yaml.Node) bool { return true }

// IfUnchanged applies only while the user still has the previous default
func (IfUnchanged) ShouldApply(userNode, oldNode *yaml.Node) bool {
	ub, _ := yaml.Marshal(userNode)
	ob, _ := yaml.Marshal(oldNode)
	return bytes.Equal(ub, ob)
}

// PatchRule patches one path of the user document
type PatchRule struct {
	// Path: sequence of map keys or sequence indices (as strings)
	Path []string
	// Condition: returns true if the patch should apply
	Condition PatchCondition
	// Transform: optional rewrite of the node taken from the new default
	Transform func(newNode *yaml.Node) *yaml.Node
	// Remove: if true, delete the node instead of patching
	Remove bool
}

// MigrationStep upgrades a document from one version to the next
type MigrationStep struct {
	From    string
	To      string
	Apply   func(user, oldDef, newDef *yaml.Node) (*yaml.Node, error)
	OldYAML []byte
	NewYAML []byte
}

// PatchEngine applies rules to the user's YAML AST, keeping key order and comments
type PatchEngine struct {
	Old   *yaml.Node
	New   *yaml.Node
	User  *yaml.Node
	Rules []PatchRule
}

// ErrAlreadyUpToDate is returned when the document is at the target version
var ErrAlreadyUpToDate = errors.New("already up to date")

// Apply walks each rule. Missing user nodes are inserted from the new default,
// present ones are replaced or removed when the rule's condition holds.
func (e *PatchEngine) Apply() error {
	for _, rule := range e.Rules {
		if len(rule.Path) == 0 {
			return fmt.Errorf("patch rule with empty path")
		}
		userNode := ResolveNode(e.User, rule.Path)
		oldNode := ResolveNode(e.Old, rule.Path)
		newNode := ResolveNode(e.New, rule.Path)

		if userNode == nil {
			if rule.Remove || newNode == nil {
				continue
			}
			parent, _ := findParent(e.User, rule.Path)
			if parent == nil || parent.Kind != yaml.MappingNode {
				continue
			}
			repl := CloneNode(newNode)
			if rule.Transform != nil {
				repl = rule.Transform(repl)
			}
			insertNode(parent, len(parent.Content), rule.Path[len(rule.Path)-1], repl)
			continue
		}

		condition := rule.Condition
		if condition == nil {
			condition = Always{}
		}
		if !condition.ShouldApply(userNode, oldNode) {
			continue
		}

		if rule.Remove {
			if parent, idx := findParent(e.User, rule.Path); parent != nil && idx >= 0 {
				deleteNode(parent, idx)
			}
			continue
		}
		if newNode == nil {
			continue
		}
		repl := CloneNode(newNode)
		if rule.Transform != nil {
			repl = rule.Transform(repl)
		}
		*userNode = *repl
	}
	return nil
}

// MigrateYaml upgrades the document at path to latestVersion in place
func MigrateYaml(logger iface.Logger, path string, latestVersion string, migrationChain []MigrationStep) error {
	userNode, err := common.LoadYAML(path)
	if err != nil {
		return fmt.Errorf("load error %s: %w", path, err)
	}

	verNode := ResolveNode(userNode, []string{"version"})
	if verNode == nil {
		return fmt.Errorf("no version field %s", path)
	}
	from := verNode.Value
	if from == latestVersion {
		return ErrAlreadyUpToDate
	}
	logger.Info("Migrating %s v%s -> v%s", path, from, latestVersion)

	migrated, err := MigrateNode(userNode, from, latestVersion, migrationChain)
	if err != nil {
		return fmt.Errorf("migration failed %s: %w", path, err)
	}

	if err := common.WriteYAML(path, migrated); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// MigrateNode runs every step of chain between from and to on the user AST
func MigrateNode(user *yaml.Node, from, to string, chain []MigrationStep) (*yaml.Node, error) {
	if from == to {
		return user, ErrAlreadyUpToDate
	}
	if versionGreaterThan(from, to) {
		return nil, fmt.Errorf("document version %s is newer than %s", from, to)
	}

	current := from
	for _, step := range chain {
		if step.From != current {
			continue
		}
		if versionGreaterThan(step.To, to) {
			break
		}

		oldDef := &yaml.Node{}
		if err := yaml.Unmarshal(step.OldYAML, oldDef); err != nil {
			return nil, fmt.Errorf("failed to unmarshal old default for %s: %w", step.From, err)
		}
		newDef := &yaml.Node{}
		if err := yaml.Unmarshal(step.NewYAML, newDef); err != nil {
			return nil, fmt.Errorf("failed to unmarshal new default for %s: %w", step.To, err)
		}

		var err error
		user, err = step.Apply(user, oldDef, newDef)
		if err != nil {
			return nil, fmt.Errorf("migration %s->%s failed: %w", step.From, step.To, err)
		}
		current = step.To
	}
	if current != to {
		return nil, fmt.Errorf("incomplete migration: ended at %s, target %s", current, to)
	}
	return user, nil
}

// ResolveNode follows path through mappings (by key) and sequences (by index)
func ResolveNode(root *yaml.Node, path []string) *yaml.Node {
	if root == nil {
		return nil
	}
	curr := unwrapDocument(root)
	for _, p := range path {
		switch curr.Kind {
		case yaml.MappingNode:
			next := common.GetChildByKey(curr, p)
			if next == nil {
				return nil
			}
			curr = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(p)
			if err != nil || idx < 0 || idx >= len(curr.Content) {
				return nil
			}
			curr = curr.Content[idx]
		default:
			return nil
		}
	}
	return curr
}

// CloneNode deep-copies a *yaml.Node, preserving comments and anchors
func CloneNode(n *yaml.Node) *yaml.Node {
	return common.CloneNode(n)
}

// RenameKey renames the mapping key at path to newKey, keeping its value,
// position and comments. It is a no-op when the key is absent or newKey exists.
func RenameKey(root *yaml.Node, path []string, newKey string) bool {
	if len(path) == 0 {
		return false
	}
	parent := ResolveNode(root, path[:len(path)-1])
	if parent == nil || parent.Kind != yaml.MappingNode {
		return false
	}
	if common.GetChildByKey(parent, newKey) != nil {
		return false
	}
	oldKey := path[len(path)-1]
	for i := 0; i+1 < len(parent.Content); i += 2 {
		if parent.Content[i].Value == oldKey {
			parent.Content[i].Value = newKey
			return true
		}
	}
	return false
}

// findParent returns the node holding the last path segment and its index
// (key index for mappings, element index for sequences)
func findParent(root *yaml.Node, path []string) (*yaml.Node, int) {
	if root == nil || len(path) == 0 {
		return nil, -1
	}
	parent := ResolveNode(root, path[:len(path)-1])
	if parent == nil {
		return nil, -1
	}
	target := path[len(path)-1]
	switch parent.Kind {
	case yaml.MappingNode:
		for j := 0; j+1 < len(parent.Content); j += 2 {
			if parent.Content[j].Value == target {
				return parent, j
			}
		}
	case yaml.SequenceNode:
		if idx, err := strconv.Atoi(target); err == nil && idx >= 0 && idx < len(parent.Content) {
			return parent, idx
		}
	}
	return parent, -1
}

// insertNode inserts a key/value pair into a mapping at key index idx
func insertNode(parent *yaml.Node, idx int, key string, value *yaml.Node) {
	if parent.Kind != yaml.MappingNode {
		return
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Value: key, Tag: "!!str"}
	parent.Content = append(parent.Content, nil, nil)
	copy(parent.Content[idx+2:], parent.Content[idx:])
	parent.Content[idx] = k
	parent.Content[idx+1] = value
}

// deleteNode removes a key/value pair from a mapping or an element from a sequence
func deleteNode(parent *yaml.Node, idx int) {
	if parent.Kind == yaml.MappingNode && idx%2 == 0 {
		parent.Content = append(parent.Content[:idx], parent.Content[idx+2:]...)
	} else if parent.Kind == yaml.SequenceNode {
		parent.Content = append(parent.Content[:idx], parent.Content[idx+1:]...)
	}
}

func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

// versionGreaterThan compares dotted versions with semver ordering
func versionGreaterThan(v1, v2 string) bool {
	a, errA := semver.ParseTolerant(v1)
	b, errB := semver.ParseTolerant(v2)
	if errA != nil || errB != nil {
		return v1 > v2
	}
	return a.GT(b)
}
