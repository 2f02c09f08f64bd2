// Package registry is the static, compile-time action registry: handler
// packages call Register from their init() to publish themselves, and the
// driver looks handlers up by (actionRef, schemaVersion) at run time
// (spec.md §4.4).
package registry

import (
	"fmt"
	"sync"

	"github.com/nodeflowrun/automator/internal/handler"
	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
)

type key struct {
	actionRef string
	version   string
}

var (
	mu      sync.RWMutex
	table   = make(map[key]handler.Handler)
	overlay = make(map[key]handler.Handler)
)

// Register publishes a handler for (actionRef, schemaVersion). Intended to
// be called from a handler package's init(); panics on a duplicate
// registration since that indicates a build-time mistake, not a runtime
// condition the driver should recover from.
func Register(actionRef, schemaVersion string, h handler.Handler) {
	mu.Lock()
	defer mu.Unlock()

	k := key{actionRef, schemaVersion}
	if _, exists := table[k]; exists {
		panic(fmt.Sprintf("registry: duplicate registration for %s:%s", actionRef, schemaVersion))
	}
	table[k] = h
}

// RegisterMock publishes a mock-IO overlay handler for (actionRef,
// schemaVersion). When mock-IO is active and an overlay entry exists, it
// takes precedence over the real handler regardless of whether a real one
// is also registered (spec.md §4.4: "if both exist and mock-IO is on, the
// mock wins").
func RegisterMock(actionRef, schemaVersion string, h handler.Handler) {
	mu.Lock()
	defer mu.Unlock()

	k := key{actionRef, schemaVersion}
	if _, exists := overlay[k]; exists {
		panic(fmt.Sprintf("registry: duplicate mock registration for %s:%s", actionRef, schemaVersion))
	}
	overlay[k] = h
}

// Lookup resolves a handler for (actionRef, schemaVersion). When mockIO is
// true, a mock overlay entry wins if present; otherwise the real handler
// is used. Returns a GraphError (exit code 3) if neither table has an
// entry — "unknown action" is a graph-shape failure, not a node-runtime
// one, since it is detectable before any node executes.
func Lookup(actionRef, schemaVersion string, mockIO bool) (handler.Handler, error) {
	mu.RLock()
	defer mu.RUnlock()

	k := key{actionRef, schemaVersion}

	if mockIO {
		if h, ok := overlay[k]; ok {
			return h, nil
		}
	}
	if h, ok := table[k]; ok {
		return h, nil
	}
	return nil, automatorerrors.NewGraphError(
		fmt.Sprintf("no handler registered for action %s:%s", actionRef, schemaVersion), nil)
}

// reset clears both tables. Exported only to tests in this package via the
// internal test file, mirroring Streamy's ResetRegistry for test isolation.
func reset() {
	table = make(map[key]handler.Handler)
	overlay = make(map[key]handler.Handler)
}
