// Package throng provides a prioritized worker pool: a bounded set of
// long-lived workers that pull items from a shared priority queue and
// execute them, with runtime control over pool size, pause/resume and
// graceful or immediate shutdown.
//
// # Work items
//
// Work is any type satisfying Item: runnable with no arguments and totally
// ordered against its own type. Higher-ordered items run first; items that
// compare equal run in push order. The ready-made Func item wraps a
// closure with an integer priority:
//
//	pool, err := throng.New[throng.Func](4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Finish(true)
//
//	pool.Push(throng.Func{Priority: 1, Fn: func() { fmt.Println("later") }})
//	pool.Push(throng.Func{Priority: 9, Fn: func() { fmt.Println("first") }})
//
// # Lifecycle
//
// A pool is running, paused or finished. Pause blocks new items from
// starting while letting in-flight ones complete; Continue resumes.
// Finish(true) drains the queue before shutting down, Finish(false)
// discards whatever has not been claimed yet. Finished is terminal: every
// later operation returns ErrFinished. Draining needs at least one live
// worker while items remain queued: Finish(true) on a pool resized to zero
// workers with a backlog blocks indefinitely.
//
//	pool.Pause()
//	pool.Push(item) // queued, will not start yet
//	pool.Continue() // item becomes runnable
//	pool.Finish(true)
//
// # Resizing
//
// SetSize changes the worker count at runtime. Growth takes effect
// immediately. Shrinking is cooperative: surplus workers (newest first)
// are marked for retirement and each exits after finishing the item it
// already claimed — a worker is never killed mid-task. Requests above the
// configured SizeLimit fail with ErrSizeLimit instead of being clamped.
//
// # Configuration
//
// Pools are configured with functional options:
//
//	pool, err := throng.New[throng.Func](0, // 0 selects SizeLimit workers
//	    throng.WithSizeLimit(32),
//	    throng.WithLogger(logger),
//	    throng.WithPanicHandler(func(r any) { metrics.Inc("item_panics") }),
//	)
//
// # Error handling
//
// A panicking item never takes down its worker or the pool: the panic is
// recovered at the loop boundary, counted in Stats, logged through the
// configured zap logger and handed to the panic handler if one is set.
// State-based refusals (ErrFinished) are ordinary return values the caller
// may ignore; ErrSizeLimit and ErrInvalidSize indicate a caller bug.
//
// # Shared pool
//
// Default returns a lazily-constructed, process-lifetime pool of Func
// items for code that wants a common pool without plumbing one through:
//
//	throng.Default().Push(throng.Func{Priority: 5, Fn: task})
//
// # Thread safety
//
// All exported methods are safe for concurrent use. Pause, Continue,
// SetSize and Finish are serialized internally; Push is linearizable with
// respect to the queue lock. Calling Finish from inside a running work
// item is disallowed, as its join-wait would deadlock on the calling
// worker.
package throng
