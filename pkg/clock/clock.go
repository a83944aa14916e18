// ABOUTME: Shared version clock for transactional commits
// ABOUTME: Monotonic 63-bit counter; source of commit-version stamps

package clock

import (
	"go.uber.org/atomic"
)

// Version is a commit-version stamp. Only the low 63 bits are used, so a
// Version also fits in signed storage.
type Version uint64

const (
	versionBits = 63
	versionMask = 1<<versionBits - 1

	// InvalidVersion is a reserved sentinel. The clock never returns it;
	// a freshly created transactional variable carries it until its first
	// committed write.
	InvalidVersion Version = 0
)

// Clock is a process-wide monotonic version counter. The zero value is not
// usable; call New.
type Clock struct {
	ticks *atomic.Uint64
}

// New returns a clock starting at zero. The first Next call returns 1.
func New() *Clock {
	return &Clock{ticks: atomic.NewUint64(0)}
}

// Next atomically increments the clock and returns the new version. It never
// returns InvalidVersion: if a wrap of the 63-bit range lands on the
// sentinel, the tick is skipped.
func (c *Clock) Next() Version {
	for {
		if v := Version(c.ticks.Inc() & versionMask); v != InvalidVersion {
			return v
		}
	}
}

// Now returns the current version without incrementing. Any Next call that
// happened before Now is observed: Now's result is >= that Next's result.
func (c *Clock) Now() Version {
	return Version(c.ticks.Load() & versionMask)
}

// Global is the clock shared by all transactions in the process.
var Global = New()
