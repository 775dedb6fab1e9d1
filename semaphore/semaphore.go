// Package semaphore provides a counting semaphore built on a mutex and a
// condition variable. It is the coordination primitive used by the pool:
// permits are posted by producers and consumed by waiters, the count is never
// observed negative, and waiters support blocking, non-blocking and bounded
// acquisition.
package semaphore

import (
	"sync"
	"time"
)

// Semaphore is a counting semaphore. The zero value is not usable; create
// one with New. All methods are safe for concurrent use without external
// locking. There is no fairness guarantee among waiters beyond every waiter
// eventually observing a permanent increase of the count.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// New creates a semaphore holding initial permits.
func New(initial int) *Semaphore {
	if initial < 0 {
		initial = 0
	}
	s := &Semaphore{count: initial}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Post adds n permits and wakes all waiters. Calls with n < 1 are ignored.
func (s *Semaphore) Post(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	s.count += n
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Wait blocks until a permit is available, then consumes it.
func (s *Semaphore) Wait() {
	s.mu.Lock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
	s.mu.Unlock()
}

// TryWait consumes a permit if one is immediately available. It reports
// whether a permit was consumed and never blocks.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return false
	}
	s.count--
	return true
}

// TimedWait behaves like Wait but gives up once d has elapsed. It reports
// whether a permit was consumed; on timeout the count is left untouched.
func (s *Semaphore) TimedWait(d time.Duration) bool {
	deadline := time.Now().Add(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		// sync.Cond has no deadline, so arm a one-shot wakeup. A spurious
		// broadcast only sends waiters back around the predicate loop.
		wakeup := time.AfterFunc(remaining, s.cond.Broadcast)
		s.cond.Wait()
		wakeup.Stop()
	}
	s.count--
	return true
}
