package booking

import "sync"

// tableLocks serializes conflict-check-then-write sequences per table.
// Without it two concurrent creations for overlapping slots on the same
// table could both pass the overlap query and both commit.
type tableLocks struct {
	mu sync.Mutex
	m  map[int]*sync.Mutex
}

// acquire locks the mutex for table n and returns the unlock func.
func (l *tableLocks) acquire(n int) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[int]*sync.Mutex)
	}
	tm, ok := l.m[n]
	if !ok {
		tm = &sync.Mutex{}
		l.m[n] = tm
	}
	l.mu.Unlock()

	tm.Lock()
	return tm.Unlock
}
