package semaphore

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPostWait(t *testing.T) {
	s := New(0)
	s.Post(2)

	s.Wait()
	s.Wait()

	if s.TryWait() {
		t.Error("TryWait succeeded on an empty semaphore")
	}
}

func TestInitialCount(t *testing.T) {
	s := New(3)
	for i := 0; i < 3; i++ {
		if !s.TryWait() {
			t.Fatalf("TryWait %d failed on semaphore with initial count 3", i)
		}
	}
	if s.TryWait() {
		t.Error("TryWait succeeded after all permits were consumed")
	}
}

func TestWaitBlocksUntilPost(t *testing.T) {
	s := New(0)
	acquired := make(chan struct{})

	go func() {
		s.Wait()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("Wait returned without a post")
	case <-time.After(20 * time.Millisecond):
	}

	s.Post(1)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after a post")
	}
}

func TestTryWait(t *testing.T) {
	s := New(1)
	if !s.TryWait() {
		t.Error("TryWait failed with a permit available")
	}
	if s.TryWait() {
		t.Error("TryWait succeeded with no permit available")
	}

	// A failed TryWait must leave the count untouched.
	s.Post(1)
	if !s.TryWait() {
		t.Error("TryWait failed after a fresh post")
	}
}

func TestTimedWaitTimeout(t *testing.T) {
	s := New(0)

	start := time.Now()
	if s.TimedWait(30 * time.Millisecond) {
		t.Fatal("TimedWait succeeded on an empty semaphore")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("TimedWait returned after %v, before the timeout", elapsed)
	}

	// The timed-out wait must not have consumed anything.
	s.Post(1)
	if !s.TryWait() {
		t.Error("permit missing after a timed-out wait")
	}
}

func TestTimedWaitSignaled(t *testing.T) {
	s := New(0)
	done := make(chan bool, 1)

	go func() {
		done <- s.TimedWait(time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Post(1)

	select {
	case ok := <-done:
		if !ok {
			t.Error("TimedWait timed out despite a post within the deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TimedWait did not return")
	}
}

func TestPostWakesAllWaiters(t *testing.T) {
	s := New(0)
	const waiters = 8

	var done sync.WaitGroup
	done.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer done.Done()
			s.Wait()
		}()
	}

	s.Post(waiters)

	finished := make(chan struct{})
	go func() {
		done.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("not all waiters woke after a bulk post")
	}
}

// Completed waits must never exceed cumulative posts: no negative
// availability, no double grant.
func TestNoOvergrant(t *testing.T) {
	s := New(0)
	const (
		posters       = 4
		postsEach     = 1000
		grabbers      = 8
		totalPosts    = posters * postsEach
		grabberBudget = totalPosts / grabbers
	)

	var granted int64
	var wg sync.WaitGroup

	wg.Add(grabbers)
	for i := 0; i < grabbers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < grabberBudget; j++ {
				s.Wait()
				atomic.AddInt64(&granted, 1)
			}
		}()
	}

	wg.Add(posters)
	for i := 0; i < posters; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < postsEach; j++ {
				s.Post(1)
			}
		}()
	}

	wg.Wait()

	if got := atomic.LoadInt64(&granted); got != totalPosts {
		t.Errorf("granted %d waits for %d posts", got, totalPosts)
	}
	if s.TryWait() {
		t.Error("permit left over after every post was matched by a wait")
	}
}

func TestPostIgnoresNonPositive(t *testing.T) {
	s := New(0)
	s.Post(0)
	s.Post(-5)
	if s.TryWait() {
		t.Error("non-positive post created a permit")
	}
}
