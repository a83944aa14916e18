// ABOUTME: Process-wide engine counters
// ABOUTME: Cheap atomic tallies; exported as a snapshot for metrics scrapes

package stm

import "go.uber.org/atomic"

// engineStats are bumped on the engine's hot paths. They are monotonic and
// never reset.
type engineStats struct {
	commits             atomic.Uint64
	lockConflicts       atomic.Uint64
	validationConflicts atomic.Uint64
	reruns              atomic.Uint64
	retryWaits          atomic.Uint64
	wakeups             atomic.Uint64
	nestedCommits       atomic.Uint64
	varsCreated         atomic.Uint64
}

var stats engineStats

// Counters is a point-in-time snapshot of the engine counters.
type Counters struct {
	// Commits counts successful top-level commits, read-only ones included.
	Commits uint64
	// LockConflicts counts commit attempts that failed to lock their write
	// set; ValidationConflicts counts attempts invalidated under locks.
	LockConflicts       uint64
	ValidationConflicts uint64
	// Reruns counts attempts abandoned by a before-commit hook.
	Reruns uint64
	// RetryWaits counts blocked retries; Wakeups counts waiters notified.
	RetryWaits uint64
	Wakeups    uint64
	// NestedCommits counts child logs folded into their parents.
	NestedCommits uint64
	// VarsCreated counts NewVar calls.
	VarsCreated uint64
}

// Snapshot returns the current engine counters.
func Snapshot() Counters {
	return Counters{
		Commits:             stats.commits.Load(),
		LockConflicts:       stats.lockConflicts.Load(),
		ValidationConflicts: stats.validationConflicts.Load(),
		Reruns:              stats.reruns.Load(),
		RetryWaits:          stats.retryWaits.Load(),
		Wakeups:             stats.wakeups.Load(),
		NestedCommits:       stats.nestedCommits.Load(),
		VarsCreated:         stats.varsCreated.Load(),
	}
}
