// Package workers provides the bounded goroutine pool the engine uses to
// run call handlers off the transport's event goroutine.
//
// It defines the Worker interface for long-lived background components and
// the Pool type, which implements the engine's Executor contract.
package workers

// Worker is the interface implemented by long-lived background components.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to return once their internal goroutines are
// running.
type Worker interface {
	Run()
}
