// ABOUTME: Control-flow sentinels and contract-violation messages
// ABOUTME: Retry and Rerun travel as panics and are caught at engine boundaries

package stm

// signal is a control-flow sentinel carried by panic. The engine recovers
// its own sentinels and lets every other panic value pass through unchanged.
type signal struct {
	name string
}

func (s *signal) String() string { return "stm: " + s.name }

var (
	// retrySignal blocks the atomic block until a read variable changes.
	// Raised by Tx.Retry, caught by Atomically.
	retrySignal = &signal{name: "retry"}

	// rerunSignal restarts the current attempt immediately. Raised by
	// Tx.Rerun; caught by Commit when raised in a before-commit hook, and by
	// Atomically when raised in the atomic body.
	rerunSignal = &signal{name: "rerun"}
)

// Contract violations are programming errors and panic with these messages.
const (
	panicFinished   = "stm: transaction already finished"
	panicNested     = "stm: Commit called on a nested transaction"
	panicNotNested  = "stm: CommitNested called on a top-level transaction"
	panicEmptyRetry = "stm: retry with an empty read set would block forever"
)
