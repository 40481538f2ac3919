package legion

import "sync/atomic"

// A borrow counter holds the access state of one chunk column:
// zero when uncontended, N > 0 with N live readers, -1 with one live writer.
// Acquisition never blocks; a denied caller decides whether to retry.

// Borrow is a release-once guard over a column's borrow counter. The zero
// value is inert. A Borrow belongs to the goroutine that acquired it;
// Release is safe to call multiple times but is not itself synchronized.
type Borrow struct {
	state     *atomic.Int64
	exclusive bool
	released  bool
}

func acquireRead(state *atomic.Int64) (*Borrow, bool) {
	for {
		current := state.Load()
		if current < 0 {
			return nil, false
		}
		if state.CompareAndSwap(current, current+1) {
			return &Borrow{state: state}, true
		}
	}
}

func acquireWrite(state *atomic.Int64) (*Borrow, bool) {
	if state.CompareAndSwap(0, -1) {
		return &Borrow{state: state, exclusive: true}, true
	}
	return nil, false
}

// Release restores the guard's contribution to the counter: decrement for a
// read borrow, reset to zero for a write borrow. Subsequent calls are no-ops.
func (b *Borrow) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	if b.exclusive {
		b.state.Store(0)
	} else {
		b.state.Add(-1)
	}
}
