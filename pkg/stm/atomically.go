// ABOUTME: Atomic-block driver: run, commit, rerun on conflict, block on retry
// ABOUTME: OrElse composes alternative bodies over nested logs

package stm

type bodyOutcome uint8

const (
	bodyDone bodyOutcome = iota
	bodyRetry
	bodyRerun
)

// runBody executes fn against tx, mapping the control-flow sentinels to an
// outcome. Any other panic propagates to the caller of Atomically.
func runBody(tx *Tx, fn func(*Tx)) (out bodyOutcome) {
	defer func() {
		switch r := recover(); r {
		case nil:
		case retrySignal:
			out = bodyRetry
		case rerunSignal:
			out = bodyRerun
		default:
			panic(r)
		}
	}()
	fn(tx)
	return bodyDone
}

// Atomically executes fn as an atomic transaction: every read observes a
// consistent snapshot and the writes are published in one step, or not at
// all. The body may run several times, so it must be free of side effects
// outside transactional memory. Atomically returns when a run of fn has
// committed; a body that calls Retry blocks until another transaction
// rewrites one of the variables it read.
func Atomically(fn func(*Tx)) {
	for {
		tx := Begin()
		switch runBody(tx, fn) {
		case bodyDone:
			if tx.Commit() {
				return
			}
		case bodyRetry:
			tx.waitForChange()
		case bodyRerun:
			// Fall through to a fresh attempt.
		}
	}
}

// OrElse returns a body that runs first and, if it retries, runs second
// instead. The whole composition blocks only when both branches retry, and
// then wakes on a change to any variable either branch read. Each branch
// runs in its own nested log so an abandoned branch's writes and hooks leave
// no trace on the enclosing transaction; its reads are merged into the
// enclosing transaction's read set.
func OrElse(first, second func(*Tx)) func(*Tx) {
	return func(tx *Tx) {
		a := tx.BeginNested()
		switch runBody(a, first) {
		case bodyDone:
			a.CommitNested()
			return
		case bodyRerun:
			tx.Rerun()
		}

		b := tx.BeginNested()
		switch runBody(b, second) {
		case bodyRerun:
			tx.Rerun()
		case bodyDone:
			// The taken branch commits with the abandoned branch's reads
			// merged in, keeping the branch choice itself validated.
			merged := MergeReads(b, a)
			if merged == nil {
				tx.Rerun()
			}
			b.reads = merged.reads
			b.CommitNested()
			return
		}

		merged := MergeReads(b, a)
		if merged == nil {
			tx.Rerun()
		}
		tx.reads = merged.reads
		tx.Retry()
	}
}
