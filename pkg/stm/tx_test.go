// ABOUTME: Tests for the transaction log recording API
// ABOUTME: Verifies repeatable reads, read-your-writes and hook registration

package stm

import "testing"

func TestGetSnapshotsFirstRead(t *testing.T) {
	v := NewVar(1)
	tx := Begin()

	if got := tx.Get(v); got != 1 {
		t.Fatalf("Get = %v, want 1", got)
	}

	// A write published behind the transaction's back is not re-read
	v.publish(9, 2)
	if got := tx.Get(v); got != 1 {
		t.Errorf("repeated Get = %v, want the recorded 1", got)
	}
	if len(tx.reads) != 1 {
		t.Errorf("read set has %d entries, want 1", len(tx.reads))
	}
}

func TestGetSeesPendingWrite(t *testing.T) {
	v := NewVar(1)
	tx := Begin()

	tx.Set(v, 5)
	if got := tx.Get(v); got != 5 {
		t.Errorf("Get = %v after Set, want 5", got)
	}

	// The write shadowed the read, so nothing was snapshotted
	if len(tx.reads) != 0 {
		t.Errorf("read set has %d entries, want 0", len(tx.reads))
	}
}

func TestSetOverwrites(t *testing.T) {
	v := NewVar(0)
	tx := Begin()

	tx.Set(v, 1)
	tx.Set(v, 2)

	if len(tx.writes) != 1 {
		t.Fatalf("write set has %d entries, want 1", len(tx.writes))
	}
	if got := tx.writes[v]; got != 2 {
		t.Errorf("write set holds %v, want 2", got)
	}
}

func TestHookRegistrationOrder(t *testing.T) {
	tx := Begin()
	var order []int

	tx.BeforeCommit(func(*Tx) { order = append(order, 1) })
	tx.BeforeCommit(func(*Tx) { order = append(order, 2) })
	tx.AfterCommit(func(*Tx) { order = append(order, 3) })

	if len(tx.before) != 2 || len(tx.after) != 1 {
		t.Fatalf("got %d before and %d after hooks, want 2 and 1",
			len(tx.before), len(tx.after))
	}

	if !tx.Commit() {
		t.Fatal("commit of a read-only transaction failed")
	}
	for i, want := range []int{1, 2, 3} {
		if order[i] != want {
			t.Fatalf("hook order = %v, want [1 2 3]", order)
		}
	}
}

func TestBeginNestedInheritsSets(t *testing.T) {
	a := NewVar(10)
	b := NewVar(20)

	parent := Begin()
	parent.Get(a)
	parent.Set(b, 21)

	child := parent.BeginNested()
	if child.parent != parent {
		t.Fatal("child does not point at its parent")
	}
	if got := child.reads[a]; got != 10 {
		t.Errorf("child read set holds %v for a, want 10", got)
	}
	if got := child.writes[b]; got != 21 {
		t.Errorf("child write set holds %v for b, want 21", got)
	}

	// The copies are independent
	child.Set(a, 11)
	if _, ok := parent.writes[a]; ok {
		t.Error("child write leaked into the parent log")
	}
}
