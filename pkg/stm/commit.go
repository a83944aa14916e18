// ABOUTME: Top-level two-phase commit engine
// ABOUTME: Hooks, ordered locking, re-validation, write-back, notification

package stm

import (
	"sort"

	"github.com/nainya/stmcore/pkg/clock"
)

// Commit attempts to publish the transaction's writes atomically. It returns
// true on success and false when the caller must re-execute the transaction
// with a fresh log. A log can be committed at most once.
//
// The protocol: run before-commit hooks; if the write set is empty the
// transaction is read-only and commits without touching the clock. Otherwise
// lock the write set in the global variable order, stamp one new version,
// re-validate the read set under those locks, publish the changed values,
// release every lock, wake waiters of the changed variables, and run
// after-commit hooks. Locks are released on every exit path, including a
// panic during write-back. After-commit hooks run with no locks held so they
// may start further atomic blocks.
func (tx *Tx) Commit() bool {
	if tx.parent != nil {
		panic(panicNested)
	}
	if tx.state != txOpen {
		panic(panicFinished)
	}
	tx.state = txCommitting

	if !tx.runBefore() {
		tx.state = txAborted
		stats.reruns.Inc()
		return false
	}

	if len(tx.writes) > 0 {
		if !tx.commitWrites() {
			tx.state = txAborted
			return false
		}
		for _, v := range tx.changed {
			v.NotifyAll()
		}
	}

	tx.state = txCommitted
	stats.commits.Inc()
	tx.runAfter()
	return true
}

// commitWrites locks the write set, re-validates, and publishes. It reports
// whether the writes were published; the locks are released either way.
func (tx *Tx) commitWrites() (ok bool) {
	vars := make([]*Var, 0, len(tx.writes))
	for v := range tx.writes {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return lockBefore(vars[i], vars[j]) })

	locked := 0
	defer func() {
		for i := locked - 1; i >= 0; i-- {
			vars[i].unlock()
		}
	}()

	for _, v := range vars {
		if !v.tryLock(tx) {
			stats.lockConflicts.Inc()
			return false
		}
		locked++
	}

	version := clock.Global.Next()

	if !tx.ValidAndUnlocked() {
		stats.validationConflicts.Inc()
		return false
	}

	for _, v := range vars {
		val := tx.writes[v]
		// An identity-equal rewrite is not published, so waiters are not
		// woken for a value that did not change.
		if val != v.Value() {
			v.publish(version, val)
			tx.changed = append(tx.changed, v)
		}
	}
	return true
}

// runBefore walks the before-commit hooks in registration order, observing
// entries appended during the walk. It returns false if a hook signalled
// rerun. Any other panic aborts the commit and propagates.
func (tx *Tx) runBefore() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if r == rerunSignal {
				ok = false
				return
			}
			tx.state = txAborted
			panic(r)
		}
	}()
	for i := 0; i < len(tx.before); i++ {
		tx.before[i](tx)
	}
	return true
}

// runAfter walks the after-commit hooks in registration order, observing
// entries appended during the walk. A panic propagates but the transaction
// stays committed.
func (tx *Tx) runAfter() {
	for i := 0; i < len(tx.after); i++ {
		tx.after[i](tx)
	}
}

// Rerun abandons the current commit attempt and asks the driver to restart
// the transaction. Valid only inside a before-commit hook or the atomic
// body; elsewhere the panic escapes to the caller.
func (tx *Tx) Rerun() {
	panic(rerunSignal)
}
