// Package core ships the two reference action handlers that make the
// engine end-to-end testable without any externally-effecting action
// pack: plugin.core.echo and plugin.core.sleep (spec.md §9 Design Notes;
// ported from the reference implementation's actions/plugin_core_echo_v1.py
// and actions/plugin_core_sleep_v1.py).
package core

import (
	"strconv"
	"strings"

	"github.com/nodeflowrun/automator/internal/handler"
	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/nodeflowrun/automator/internal/registry"
)

func init() {
	registry.Register("plugin.core.echo", "v1", handler.Func(runEcho))
}

// runEcho returns its message input verbatim, falling back to a fixed
// placeholder when the message is absent or blank.
func runEcho(node ir.Node, resolvedInput ir.Value) (ir.Value, error) {
	message := "(no result)"

	if field, ok := resolvedInput.Field("message"); ok {
		switch field.Kind() {
		case ir.KindString:
			s, _ := field.Str()
			if strings.TrimSpace(s) != "" {
				message = s
			}
		case ir.KindNumber:
			n, _ := field.Number()
			message = formatNumber(n)
		}
	}

	return ir.Mapping([]ir.Entry{{Key: "message", Value: ir.String(message)}}), nil
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
