package ir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
)

// LoadWorkflow reads a workflow document from path, dispatching on file
// extension (.yaml/.yml as YAML, any other extension as JSON), and
// validates its top-level structure.
// Failures are reported as a StructuralError (exit code 2, spec.md §7).
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, automatorerrors.NewStructuralError(path, "cannot read workflow file", err)
	}

	wf, err := decodeWorkflow(path, data)
	if err != nil {
		return nil, err
	}

	if wf.Kind != "process" {
		return nil, automatorerrors.NewStructuralError("kind", fmt.Sprintf("must be %q, got %q", "process", wf.Kind), nil)
	}
	if len(wf.Nodes) == 0 {
		return nil, automatorerrors.NewStructuralError("nodes", "must be a non-empty sequence", nil)
	}

	applyDefaults(wf)

	if err := ValidateWorkflow(wf); err != nil {
		return nil, automatorerrors.NewStructuralError("nodes", err.Error(), err)
	}

	return wf, nil
}

// applyDefaults fills in field defaults decode does not apply itself.
// schemaVersion is optional per spec.md §3 ("default v1"), mirroring the
// reference runner's node.get("schemaVersion", "v1")
// (_examples/original_source/runner.py) — applied before validation so an
// omitted schemaVersion never trips the "required" rule.
func applyDefaults(wf *Workflow) {
	for i := range wf.Nodes {
		if wf.Nodes[i].SchemaVersion == "" {
			wf.Nodes[i].SchemaVersion = DefaultSchemaVersion
		}
	}
}

func decodeWorkflow(path string, data []byte) (*Workflow, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var wf Workflow

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &wf); err != nil {
			return nil, automatorerrors.NewStructuralError(path, "invalid YAML", err)
		}
	default:
		// Every non-YAML extension is parsed as JSON. Unknown top-level
		// and per-node keys are forward-compatible and must be ignored,
		// not rejected (spec.md §6.4).
		dec := json.NewDecoder(strings.NewReader(string(data)))
		if err := dec.Decode(&wf); err != nil {
			return nil, automatorerrors.NewStructuralError(path, "invalid JSON", err)
		}
	}

	return &wf, nil
}
