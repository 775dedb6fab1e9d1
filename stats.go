package throng

import "sync/atomic"

// Stats is a point-in-time snapshot of pool activity. Counters are read
// without locks, so individual fields may be slightly inconsistent with one
// another during concurrent operation.
type Stats struct {
	Submitted int64 // items accepted by Push
	Completed int64 // items that ran to completion
	Failed    int64 // items that panicked
	Queued    int64 // items waiting in the queue
	InFlight  int64 // items currently executing
	Workers   int   // live workers
}

// statsStore accumulates pool counters with lock-free access.
type statsStore struct {
	submitted int64
	completed int64
	failed    int64
}

func (s *statsStore) addSubmitted(n int64) { atomic.AddInt64(&s.submitted, n) }
func (s *statsStore) addCompleted(n int64) { atomic.AddInt64(&s.completed, n) }
func (s *statsStore) addFailed(n int64)    { atomic.AddInt64(&s.failed, n) }

func (s *statsStore) get() Stats {
	return Stats{
		Submitted: atomic.LoadInt64(&s.submitted),
		Completed: atomic.LoadInt64(&s.completed),
		Failed:    atomic.LoadInt64(&s.failed),
	}
}
