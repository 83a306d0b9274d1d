package config

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"sort"
	"strings"

	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
	"github.com/Layr-Labs/solkit-cli/pkg/telemetry"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConfigChange represents a change in a configuration field
type ConfigChange struct {
	Path     string
	OldValue interface{}
	NewValue interface{}
}

const (
	// maximum number of individual changes attached to the telemetry metric
	maxChangesToInclude = 20
	maxValueLen         = 50
)

// EditConfig opens cfgPath in an editor, then validates the result. An
// invalid document is reverted to its previous content.
func EditConfig(cCtx *cli.Context, cfgPath string) error {
	logger := common.LoggerFromContext(cCtx.Context)

	editor, err := findEditor()
	if err != nil {
		return err
	}

	backupData, err := os.ReadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	if err := openEditor(editor, cfgPath, logger); err != nil {
		return err
	}

	changes, err := reviewEdit(cfgPath, backupData)
	if err != nil {
		logger.Error("Error validating config: %v", err)
		logger.Info("Reverting changes...")
		if restoreErr := os.WriteFile(cfgPath, backupData, 0644); restoreErr != nil {
			logger.Error("Failed to restore backup after validation error: %v", restoreErr)
			return restoreErr
		}
		return err
	}

	logConfigChanges(changes, logger)
	sendConfigChangeTelemetry(cCtx.Context, changes, logger)

	logger.Info("Config file updated successfully.")
	return nil
}

// findEditor prefers $EDITOR, then the first of nano, vi, vim on PATH
func findEditor() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		if _, err := exec.LookPath(editor); err == nil {
			return editor, nil
		}
	}

	for _, editor := range []string{"nano", "vi", "vim"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no suitable text editor found. Please install nano or vi, or set the EDITOR environment variable")
}

func openEditor(editorPath, filePath string, logger iface.Logger) error {
	logger.Info("Opening config file in %s...", editorPath)

	cmd := exec.Command(editorPath, filePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// reviewEdit validates the edited document and diffs it against the backup
func reviewEdit(cfgPath string, backupData []byte) ([]ConfigChange, error) {
	if _, err := buildconfig.Load(cfgPath); err != nil {
		return nil, err
	}
	newData, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return diffDocuments(backupData, newData)
}

// diffDocuments returns adds/removes/changes between two documents, sorted by path.
// The version field must not be edited by hand.
func diffDocuments(originalYAML, updatedYAML []byte) ([]ConfigChange, error) {
	original, err := common.YamlToMap(originalYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to convert yaml to map: %w", err)
	}
	updated, err := common.YamlToMap(updatedYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to convert yaml to map: %w", err)
	}

	ov, nv := fmt.Sprint(original["version"]), fmt.Sprint(updated["version"])
	if ov != nv {
		return nil, fmt.Errorf("version must not be altered (was %q, now %q); use `solkit config migrate`", ov, nv)
	}

	changes := diffValues("", original, updated)
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// diffValues recurses into maps and compares everything else with DeepEqual
func diffValues(path string, oldV, newV interface{}) []ConfigChange {
	switch {
	case oldV == nil && newV == nil:
		return nil
	case oldV == nil || newV == nil:
		return []ConfigChange{{Path: path, OldValue: oldV, NewValue: newV}}
	}

	om, oldIsMap := oldV.(map[string]interface{})
	nm, newIsMap := newV.(map[string]interface{})
	if !oldIsMap || !newIsMap {
		if reflect.DeepEqual(oldV, newV) {
			return nil
		}
		return []ConfigChange{{Path: path, OldValue: oldV, NewValue: newV}}
	}

	var out []ConfigChange
	for k, ov := range om {
		out = append(out, diffValues(join(path, k), ov, nm[k])...)
	}
	for k, nv := range nm {
		if _, ok := om[k]; !ok {
			out = append(out, ConfigChange{Path: join(path, k), NewValue: nv})
		}
	}
	return out
}

func join(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func sectionOf(path string) string {
	section, _, _ := strings.Cut(path, ".")
	return section
}

// logConfigChanges logs changes grouped by top-level section
func logConfigChanges(changes []ConfigChange, logger iface.Logger) {
	if len(changes) == 0 {
		logger.Info("No changes detected in configuration.")
		return
	}

	var sections []string
	bySection := make(map[string][]ConfigChange)
	for _, change := range changes {
		section := sectionOf(change.Path)
		if _, seen := bySection[section]; !seen {
			sections = append(sections, section)
		}
		bySection[section] = append(bySection[section], change)
	}

	titleCaser := cases.Title(language.English)
	for _, section := range sections {
		logger.Info("%s changes:", titleCaser.String(strings.ReplaceAll(section, "_", " ")))
		for _, change := range bySection[section] {
			formatAndLogChange(change, logger)
		}
	}
}

func formatAndLogChange(change ConfigChange, logger iface.Logger) {
	switch {
	case change.OldValue == nil:
		logger.Info("  - %s added (value: %v)", change.Path, change.NewValue)
	case change.NewValue == nil:
		logger.Info("  - %s removed (was: %v)", change.Path, change.OldValue)
	default:
		_, oldIsStr := change.OldValue.(string)
		_, newIsStr := change.NewValue.(string)
		if oldIsStr && newIsStr {
			logger.Info("  - %s changed from '%v' to '%v'", change.Path, change.OldValue, change.NewValue)
		} else {
			logger.Info("  - %s changed from %v to %v", change.Path, change.OldValue, change.NewValue)
		}
	}
}

// sendConfigChangeTelemetry records a ConfigChangeCount metric with per-section counts
func sendConfigChangeTelemetry(ctx context.Context, changes []ConfigChange, logger iface.Logger) {
	if len(changes) == 0 {
		return
	}

	metrics, err := telemetry.MetricsFromContext(ctx)
	if err != nil {
		logger.Debug("Skipping config change telemetry: %v", err)
		return
	}

	dimensions := make(map[string]string)
	sectionCounts := make(map[string]int)
	for i, change := range changes {
		sectionCounts[sectionOf(change.Path)]++
		if i >= maxChangesToInclude {
			continue
		}
		dimensions[fmt.Sprintf("changed_%d_path", i)] = change.Path
		dimensions[fmt.Sprintf("changed_%d_from", i)] = truncate(fmt.Sprintf("%v", change.OldValue))
		dimensions[fmt.Sprintf("changed_%d_to", i)] = truncate(fmt.Sprintf("%v", change.NewValue))
	}
	for section, count := range sectionCounts {
		dimensions[section+"_changes"] = fmt.Sprintf("%d", count)
	}

	metrics.AddMetricWithDimensions("ConfigChangeCount", float64(len(changes)), dimensions)
}

func truncate(s string) string {
	if len(s) > maxValueLen {
		return s[:maxValueLen] + "..."
	}
	return s
}
