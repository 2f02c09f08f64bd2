// Package driver owns the output context and iterates a workflow's
// topological order, invoking the resolver and executor per node and
// emitting the metrics journal and terminal status (spec.md §4.6).
package driver

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/nodeflowrun/automator/internal/executor"
	"github.com/nodeflowrun/automator/internal/graph"
	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/nodeflowrun/automator/internal/metrics"
	"github.com/nodeflowrun/automator/internal/registry"
	"github.com/nodeflowrun/automator/internal/resolver"
	"github.com/nodeflowrun/automator/internal/runconfig"
)

// Exit codes, per spec.md §6.1.
const (
	ExitOK          = 0
	ExitInvalidIR   = 2
	ExitGraphError  = 3
	ExitNodeFailure = 4
)

// Driver orchestrates a single run of an already-loaded workflow.
type Driver struct {
	Config     runconfig.Config
	Quarantine *registry.Quarantine
	Journal    *metrics.Journal
	Prom       *metrics.PrometheusExporter // optional; nil methods are no-ops
	Logger     zerolog.Logger
	Stdout     io.Writer
}

// New constructs a Driver with the given collaborators. prom may be nil if
// Prometheus export was not requested for this run.
func New(cfg runconfig.Config, quarantine *registry.Quarantine, journal *metrics.Journal, prom *metrics.PrometheusExporter, logger zerolog.Logger, stdout io.Writer) *Driver {
	return &Driver{Config: cfg, Quarantine: quarantine, Journal: journal, Prom: prom, Logger: logger, Stdout: stdout}
}

// Run executes every node of wf in topological order, returning the
// process exit code spec.md §6.1 prescribes.
func (d *Driver) Run(workflowPath string, wf *ir.Workflow) int {
	d.Prom.RunStarted()
	defer d.Prom.RunFinished()

	g, err := graph.Build(wf.Nodes)
	if err != nil {
		return d.failGlobal(err, ExitGraphError)
	}

	order, err := g.Order()
	if err != nil {
		return d.failGlobal(err, ExitGraphError)
	}

	nodesByID := make(map[string]ir.Node, len(wf.Nodes))
	for _, n := range wf.Nodes {
		nodesByID[n.ID] = n
	}

	ctx := resolver.Context{}

	for _, id := range order {
		node := nodesByID[id]
		d.Logger.Debug().Str("node", id).Str("actionRef", node.ActionRef).Msg("executing node")

		if code, ok := d.runNode(node, ctx); !ok {
			return code
		}
	}

	absPath, err := filepath.Abs(workflowPath)
	if err != nil {
		absPath = workflowPath
	}
	d.Journal.WriteWorkflowResult(metrics.WorkflowResult{Workflow: absPath, OK: true})
	fmt.Fprintln(d.Stdout, "OK")
	return ExitOK
}

// runNode executes one node to completion, writing its metrics record and
// terminal output on failure. Returns the exit code and false if the run
// must stop.
func (d *Driver) runNode(node ir.Node, ctx resolver.Context) (int, bool) {
	h, err := registry.Lookup(node.ActionRef, node.SchemaVersion, d.Config.MockIO)
	if err != nil {
		return d.failNode(node, err, ExitGraphError), false
	}

	if err := d.Quarantine.Check(node.ID, node.ActionRef, node.SchemaVersion, d.Config.Strict()); err != nil {
		return d.failNode(node, err, ExitNodeFailure), false
	}

	if d.Config.DryRun {
		ctx[node.ID] = ir.Mapping([]ir.Entry{{Key: "dryRun", Value: ir.Bool(true)}})
		return ExitOK, true
	}

	resolve := func() (ir.Value, error) {
		resolved, err := resolver.Resolve(node.Input, ctx, d.Config.Mode)
		if d.Config.Debug {
			d.Logger.Debug().Str("node", node.ID).Interface("resolvedInput", resolved).AnErr("error", err).Msg("DEBUG_REF")
		}
		return resolved, err
	}

	start := time.Now()
	result, err := executor.RunWithResolve(node, resolve, h, executor.RealClock)
	duration := time.Since(start)
	if err != nil {
		d.Prom.RecordNode(node.ActionRef, duration, result.Attempts, false)
		return d.failNode(node, err, ExitNodeFailure), false
	}

	d.Prom.RecordNode(node.ActionRef, duration, result.Attempts, true)
	ctx[node.ID] = result.Output
	d.Journal.WriteNodeResult(metrics.NodeResult{
		Node: node.ID, ActionRef: node.ActionRef, SchemaVersion: node.SchemaVersion, OK: true,
	})
	return ExitOK, true
}

// failNode records a per-node failure: one ok:false metrics record and
// the NODE_FAILED: <id>: <message> terminal line (spec.md §6.1/§4.6).
func (d *Driver) failNode(node ir.Node, err error, exitCode int) int {
	d.Journal.WriteNodeResult(metrics.NodeResult{
		Node: node.ID, ActionRef: node.ActionRef, SchemaVersion: node.SchemaVersion, OK: false, Error: err.Error(),
	})
	fmt.Fprintf(d.Stdout, "NODE_FAILED: %s: %s\n", node.ID, err.Error())
	d.Logger.Error().Str("node", node.ID).Err(err).Msg("node failed")
	return exitCode
}

// failGlobal records a pre-execution failure (cycle, unknown dependency):
// no node_result records are written since no node has been reached
// (spec.md §8).
func (d *Driver) failGlobal(err error, exitCode int) int {
	fmt.Fprintf(d.Stdout, "NODE_FAILED: %s\n", err.Error())
	d.Logger.Error().Err(err).Msg("workflow failed before execution")
	return exitCode
}
