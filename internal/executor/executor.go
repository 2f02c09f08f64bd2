// Package executor drives a single node through its retry/timeout state
// machine (spec.md §4.5): READY → RESOLVING → ATTEMPT → RUNNING →
// SUCCESS/ERROR.
package executor

import (
	stderrors "errors"
	"time"

	"github.com/nodeflowrun/automator/internal/handler"
	"github.com/nodeflowrun/automator/internal/ir"
	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
)

// Clock abstracts wall-clock time so tests can avoid real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// realClock is the production Clock, backed by the time package.
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock is the Clock executor.Run uses unless a test swaps it in.
var RealClock Clock = realClock{}

// Result carries the handler's output plus bookkeeping useful to the
// driver and to tests asserting on retry/backoff counts.
type Result struct {
	Output   ir.Value
	Attempts int
}

// Run invokes h for node, retrying per spec.md §4.5: a declared retryable
// error (or any unclassified error) is retried up to node's maxAttempts
// with a fixed backoff between attempts; a declared permanent error fails
// immediately without retry. Timeouts are cooperative — measured after
// the handler returns — and treated as retryable.
func Run(node ir.Node, resolvedInput ir.Value, h handler.Handler, clock Clock) (Result, error) {
	if clock == nil {
		clock = RealClock
	}

	maxAttempts := node.EffectiveMaxAttempts()
	backoff := node.EffectiveBackoff()

	var lastErr error
	var lastResult Result
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := runAttempt(node, resolvedInput, h, clock, attempt)
		if err == nil {
			return result, nil
		}
		lastErr, lastResult = err, result

		if handler.Classify(err) == automatorerrors.Permanent {
			return result, err
		}
		if attempt == maxAttempts {
			return result, err
		}
		if backoff > 0 {
			clock.Sleep(backoff)
		}
	}

	return lastResult, lastErr
}

// Resolve is the shape of a per-attempt input resolution step: resolve
// the node's input against the output context, yielding the value a
// handler attempt will receive.
type Resolve func() (ir.Value, error)

// RunWithResolve drives the full READY→RESOLVING→ATTEMPT→RUNNING state
// machine in one retry loop: each attempt re-runs resolve before invoking
// h. A permanent error from either resolve or h fails immediately with no
// retry. A retryable resolution failure consumes an attempt and backs off
// like a retryable handler failure — spec.md §4.5 notes this should not
// occur under a valid topological order, since by the time a node is
// eligible for execution every dependency already has a context entry,
// but the state diagram still routes it through the attempt loop rather
// than treating it as unconditionally fatal.
func RunWithResolve(node ir.Node, resolve Resolve, h handler.Handler, clock Clock) (Result, error) {
	if clock == nil {
		clock = RealClock
	}

	maxAttempts := node.EffectiveMaxAttempts()
	backoff := node.EffectiveBackoff()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resolvedInput, err := resolve()
		if err != nil {
			lastErr = err
			if classifyResolverError(err) == automatorerrors.Permanent {
				return Result{Attempts: attempt}, lastErr
			}
			if attempt == maxAttempts {
				return Result{Attempts: attempt}, lastErr
			}
			if backoff > 0 {
				clock.Sleep(backoff)
			}
			continue
		}

		result, herr := runAttempt(node, resolvedInput, h, clock, attempt)
		if herr == nil {
			return result, nil
		}
		lastErr = herr
		if handler.Classify(herr) == automatorerrors.Permanent {
			return result, herr
		}
		if attempt == maxAttempts {
			return result, herr
		}
		if backoff > 0 {
			clock.Sleep(backoff)
		}
	}

	return Result{Attempts: maxAttempts}, lastErr
}

func classifyResolverError(err error) automatorerrors.Classification {
	var resolverErr *automatorerrors.ResolverError
	if stderrors.As(err, &resolverErr) {
		return resolverErr.Classification
	}
	return automatorerrors.Permanent
}

// runAttempt performs exactly one handler invocation, applying the
// timeout and mapping-return checks Run also applies.
func runAttempt(node ir.Node, resolvedInput ir.Value, h handler.Handler, clock Clock, attempt int) (Result, error) {
	timeout := node.EffectiveTimeout()

	start := clock.Now()
	output, err := h.Run(node, resolvedInput)
	elapsed := clock.Now().Sub(start)

	if err == nil {
		if timeout > 0 && elapsed > timeout {
			err = automatorerrors.NewHandlerError(node.ID, node.ActionRef, automatorerrors.Retryable,
				timeoutError{elapsed: elapsed, timeout: timeout})
		} else if output.Kind() != ir.KindMapping {
			err = automatorerrors.NewHandlerError(node.ID, node.ActionRef, automatorerrors.Permanent,
				nonMappingError{})
		} else {
			return Result{Output: output, Attempts: attempt}, nil
		}
	}

	return Result{Attempts: attempt}, wrapUnclassified(node, err)
}

// wrapUnclassified ensures every error leaving Run is a *HandlerError so
// handler.Classify and the driver's exit-code mapping see a consistent
// type, even when h.Run returned a bare, unwrapped error (which spec.md
// §4.5/§6.3 treats as retryable).
func wrapUnclassified(node ir.Node, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*automatorerrors.HandlerError); ok {
		return err
	}
	return automatorerrors.NewHandlerError(node.ID, node.ActionRef, automatorerrors.Retryable, err)
}

type timeoutError struct {
	elapsed time.Duration
	timeout time.Duration
}

func (e timeoutError) Error() string {
	return "handler exceeded timeout: " + e.elapsed.String() + " > " + e.timeout.String()
}

type nonMappingError struct{}

func (nonMappingError) Error() string { return "handler must return a mapping" }
