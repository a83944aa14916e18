// ABOUTME: Transaction log: per-transaction read set, write set and hooks
// ABOUTME: Owned by one goroutine; consumed by exactly one commit

package stm

// txState tracks the lifecycle of a transaction log.
type txState uint8

const (
	txOpen txState = iota
	txCommitting
	txCommitted
	txAborted
)

// Tx is a transaction log. It records the values observed on first read,
// the intended writes, and the hooks to run around commit. A Tx belongs to
// the goroutine that created it and must not be shared.
type Tx struct {
	reads  map[*Var]Value
	writes map[*Var]Value

	// Hook slices are append-only; the commit engine walks them by index so
	// hooks may register further hooks mid-walk.
	before []func(*Tx)
	after  []func(*Tx)

	// changed collects the variables actually rewritten during commit, for
	// waiter notification.
	changed []*Var

	parent *Tx
	state  txState
}

// Begin starts a top-level transaction.
func Begin() *Tx {
	return &Tx{
		reads:  make(map[*Var]Value),
		writes: make(map[*Var]Value),
	}
}

// BeginNested starts a transaction nested in tx. The child inherits copies
// of the parent's read and write sets, so it sees everything the enclosing
// transaction has done so far.
func (tx *Tx) BeginNested() *Tx {
	child := &Tx{
		reads:  make(map[*Var]Value, len(tx.reads)),
		writes: make(map[*Var]Value, len(tx.writes)),
		parent: tx,
	}
	for v, val := range tx.reads {
		child.reads[v] = val
	}
	for v, val := range tx.writes {
		child.writes[v] = val
	}
	return child
}

// Get returns v's value as seen by the transaction: a pending write if one
// exists, else the value recorded on first read, else a fresh snapshot that
// is recorded for validation. Reads are repeatable within a transaction.
func (tx *Tx) Get(v *Var) Value {
	if val, ok := tx.writes[v]; ok {
		return val
	}
	if val, ok := tx.reads[v]; ok {
		return val
	}
	val := v.Value()
	tx.reads[v] = val
	return val
}

// Set records an intended write of val to v. Nothing is published until the
// transaction commits.
func (tx *Tx) Set(v *Var, val Value) {
	tx.writes[v] = val
}

// BeforeCommit registers fn to run at the start of commit, before any lock
// is taken. Before-commit hooks may read and write transactional memory on
// the transaction they receive, and may register further hooks. A hook that
// finds the transaction invalidated must call Rerun on it.
func (tx *Tx) BeforeCommit(fn func(*Tx)) {
	tx.before = append(tx.before, fn)
}

// AfterCommit registers fn to run once the transaction has committed and all
// locks are released. After-commit hooks must not write any variable and
// must not read variables the transaction did not itself read or write; they
// must not retry.
func (tx *Tx) AfterCommit(fn func(*Tx)) {
	tx.after = append(tx.after, fn)
}
