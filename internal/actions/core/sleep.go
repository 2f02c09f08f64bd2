package core

import (
	"fmt"
	"time"

	"github.com/nodeflowrun/automator/internal/handler"
	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/nodeflowrun/automator/internal/registry"
)

func init() {
	registry.Register("plugin.core.sleep", "v1", handler.Func(runSleep))
}

// runSleep blocks for the requested duration and reports how long it
// slept. The returned errors are deliberately unwrapped — per spec.md
// §4.5/§6.3 an unclassified exception is treated as retryable, matching
// the reference implementation's bare ValueError.
func runSleep(node ir.Node, resolvedInput ir.Value) (ir.Value, error) {
	field, ok := resolvedInput.Field("duration")
	if !ok {
		return ir.Value{}, fmt.Errorf("missing required input field 'duration'")
	}

	n, ok := field.Number()
	if !ok {
		return ir.Value{}, fmt.Errorf("invalid input field 'duration', must be an integer")
	}
	duration := int64(n)
	if float64(duration) != n || duration < 0 {
		return ir.Value{}, fmt.Errorf("invalid input field 'duration', must be a non-negative integer")
	}

	time.Sleep(time.Duration(duration) * time.Second)

	return ir.Mapping([]ir.Entry{
		{Key: "text", Value: ir.String(fmt.Sprintf("Slept for %d seconds", duration))},
	}), nil
}
