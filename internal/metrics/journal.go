// Package metrics writes the append-only JSON-lines run journal
// (spec.md §6.2): one node_result record per completed node, and one
// workflow_result record on overall success.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Journal appends records to <runsDir>/metrics.jsonl, opening, writing,
// and closing the file for each record so a crash mid-run leaves at most
// one partial trailing line (spec.md §5). Plain encoding/json and
// os.OpenFile are used deliberately instead of the ambient zerolog
// logger: the journal's line shape is a load-bearing external contract
// (exact field set, no injected level/time keys), which a general
// structured-logging library would not preserve untouched.
type Journal struct {
	path string
}

// NewJournal returns a Journal writing to <runsDir>/metrics.jsonl,
// creating runsDir if it does not exist.
func NewJournal(runsDir string) (*Journal, error) {
	if err := os.MkdirAll(runsDir, 0o755); err != nil {
		return nil, fmt.Errorf("metrics: cannot create runs dir %s: %w", runsDir, err)
	}
	return &Journal{path: filepath.Join(runsDir, "metrics.jsonl")}, nil
}

// NodeResult is one per-node completion record.
type NodeResult struct {
	Type          string `json:"type"`
	Node          string `json:"node"`
	ActionRef     string `json:"actionRef"`
	SchemaVersion string `json:"schemaVersion"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
}

// WorkflowResult is the single per-run completion record, written only
// when every node has succeeded.
type WorkflowResult struct {
	Type     string `json:"type"`
	Workflow string `json:"workflow"`
	OK       bool   `json:"ok"`
}

// WriteNodeResult appends a node_result record.
func (j *Journal) WriteNodeResult(r NodeResult) {
	r.Type = "node_result"
	j.append(r)
}

// WriteWorkflowResult appends a workflow_result record.
func (j *Journal) WriteWorkflowResult(r WorkflowResult) {
	r.Type = "workflow_result"
	j.append(r)
}

// append writes one JSON line, opening and closing the file so every
// record is durable independently. Errors are logged to stderr and
// swallowed: a metrics I/O failure must never fail a node (spec.md §9
// Open Questions).
func (j *Journal) append(record any) {
	line, err := json.Marshal(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics: cannot encode record: %v\n", err)
		return
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics: cannot open journal %s: %v\n", j.path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "metrics: cannot write journal %s: %v\n", j.path, err)
	}
}

// Path returns the journal's file path, for tests and diagnostics.
func (j *Journal) Path() string { return j.path }
