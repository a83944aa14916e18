// ABOUTME: Transactional variable: a versioned cell with a single-owner lock
// ABOUTME: Read without locks, published under lock by the commit engine

package stm

import (
	"go.uber.org/atomic"

	"github.com/nainya/stmcore/pkg/clock"
)

// Value is the content of a transactional variable. The engine compares
// values with Go interface equality, so values must be comparable; hold
// slices, maps, and other aggregates behind a pointer.
type Value = any

// cell is an immutable (version, value) pair. A Var swaps whole cells so
// readers always see the two fields together.
type cell struct {
	version clock.Version
	value   Value
}

// Var is a transactional variable. All access from user code goes through a
// transaction; Value and Version exist for the engine and for inspection.
type Var struct {
	id  uint64
	cur *atomic.Pointer[cell]

	// owner is the transaction currently holding the write lock, nil when
	// unlocked. CAS on acquire gives the required ordering.
	owner *atomic.Pointer[Tx]

	waiters waitQueue
}

var varIDs = atomic.NewUint64(0)

// NewVar creates a transactional variable holding val. Variables created
// later have strictly larger ids; the id fixes the global lock order.
func NewVar(val Value) *Var {
	stats.varsCreated.Inc()
	return &Var{
		id:    varIDs.Inc(),
		cur:   atomic.NewPointer(&cell{version: clock.InvalidVersion, value: val}),
		owner: atomic.NewPointer[Tx](nil),
	}
}

// Value returns the current committed value without synchronization. A
// concurrent committer's old or new value may be observed; the commit engine
// re-validates under locks before trusting any read.
func (v *Var) Value() Value {
	return v.cur.Load().value
}

// Version returns the version stamp of the last committed write, or
// clock.InvalidVersion if the variable has never been written by a commit.
func (v *Var) Version() clock.Version {
	return v.cur.Load().version
}

// tryLock acquires v's write lock for tx. Non-blocking.
func (v *Var) tryLock(tx *Tx) bool {
	return v.owner.CompareAndSwap(nil, tx)
}

// unlock releases the write lock. The caller must hold it.
func (v *Var) unlock() {
	v.owner.Store(nil)
}

// unlockedBy reports whether v is unlocked or locked by tx itself. A
// variable may sit in both the read and write set of one transaction, so
// re-validation must not treat its own lock as a conflict.
func (v *Var) unlockedBy(tx *Tx) bool {
	o := v.owner.Load()
	return o == nil || o == tx
}

// publish atomically installs a new (version, value) pair. The caller must
// hold v's write lock.
func (v *Var) publish(ver clock.Version, val Value) {
	v.cur.Store(&cell{version: ver, value: val})
}

// lockBefore is the total order for write-set lock acquisition: newer
// variables first. Any globally agreed order works; this one needs no state
// beyond the immutable id.
func lockBefore(a, b *Var) bool {
	return a.id > b.id
}
