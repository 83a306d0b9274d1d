package buildconfig

import (
	"regexp"

	"gopkg.in/yaml.v3"
)

// envRef matches ${NAME}; bare $NAME and other dollar signs are left as written
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces every ${NAME} in s using lookup
func expandEnv(s string, lookup func(string) string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return lookup(envRef.FindStringSubmatch(ref)[1])
	})
}

// expandNode rewrites scalar values in place. A plain scalar whose value
// changed has its tag re-resolved, so `port: ${PORT}` decodes as an integer.
func expandNode(node *yaml.Node, lookup func(string) string) {
	if node == nil {
		return
	}
	if node.Kind == yaml.ScalarNode {
		expanded := expandEnv(node.Value, lookup)
		if expanded != node.Value {
			node.Value = expanded
			if node.Style == 0 {
				node.Tag = ""
			}
		}
		return
	}
	for _, child := range node.Content {
		expandNode(child, lookup)
	}
}
