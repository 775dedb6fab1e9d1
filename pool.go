package throng

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkeidar/throng/semaphore"
)

// Status represents the pool lifecycle state.
type Status int32

const (
	StatusRunning Status = iota
	StatusPaused
	StatusFinished
)

// String returns a human-readable state name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Pool is a bounded set of long-lived workers that pull prioritized items
// from a shared queue and execute them. It supports pausing, live resizing
// and graceful or immediate shutdown.
//
// All exported methods are safe for concurrent use. Pause, Continue,
// SetSize and Finish are serialized against each other internally.
type Pool[T Item[T]] struct {
	cfg Config
	log *zap.Logger

	// status is one of StatusRunning/Paused/Finished. Written only under
	// ctl, read lock-free by workers on every iteration.
	status int32

	// draining is set by Finish(true) before the terminal state so that
	// workers keep servicing the queue until it is observed drained.
	draining int32

	// ctl serializes Pause, Continue, SetSize and Finish and guards
	// permits, the gate accounting those operations share.
	ctl sync.Mutex

	// permits is the number of gate permits in circulation while running,
	// and the number Continue posts when resuming. It tracks the target
	// worker count through resizes.
	permits int

	// Worker set, guarded by wmu. order keeps insertion order so a shrink
	// retires the most recently added workers first.
	wmu     sync.Mutex
	workers map[uuid.UUID]*worker[T]
	order   []uuid.UUID

	// Retirement set, guarded by rmu. A worker whose id appears here
	// exits at its next checkpoint and removes itself.
	rmu      sync.Mutex
	retiring map[uuid.UUID]struct{}

	// Work queue and in-flight count, guarded by qmu. qmu is held only
	// across structural mutation, never across item execution.
	qmu      sync.Mutex
	queue    itemQueue[T]
	inFlight int

	gate  *semaphore.Semaphore // one permit per worker allowed to run
	work  *semaphore.Semaphore // one permit per queued, unclaimed item
	drain *semaphore.Semaphore // posted on every transition to drained

	stats statsStore
}

// New creates a pool running size workers. A size of 0 selects the
// configured SizeLimit. Sizes above the limit fail with ErrSizeLimit
// rather than being clamped.
//
// Example:
//
//	pool, err := throng.New[throng.Func](4,
//	    throng.WithLogger(logger),
//	)
func New[T Item[T]](size int, opts ...Option) (*Pool[T], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		size = cfg.SizeLimit
	}
	if size > cfg.SizeLimit {
		return nil, ErrSizeLimit
	}

	p := &Pool[T]{
		cfg:      cfg,
		log:      cfg.Logger,
		workers:  make(map[uuid.UUID]*worker[T], size),
		retiring: make(map[uuid.UUID]struct{}),
		gate:     semaphore.New(0),
		work:     semaphore.New(0),
		drain:    semaphore.New(0),
	}
	p.spawn(size)
	return p, nil
}

// Status returns the pool lifecycle state.
func (p *Pool[T]) Status() Status {
	return Status(atomic.LoadInt32(&p.status))
}

func (p *Pool[T]) setStatus(s Status) {
	atomic.StoreInt32(&p.status, int32(s))
}

// Push submits an item for execution. The pool owns the item from this
// point on. Returns ErrFinished once the pool has been finished.
//
// The status check shares the queue lock with the enqueue, so work is
// never signaled-for without the item actually being present.
func (p *Pool[T]) Push(item T) error {
	p.qmu.Lock()
	if p.Status() == StatusFinished {
		p.qmu.Unlock()
		return ErrFinished
	}
	p.queue.push(item)
	p.qmu.Unlock()

	p.work.Post(1)
	p.stats.addSubmitted(1)
	return nil
}

// Pause stops workers from starting new items until Continue is called.
// Items already executing are allowed to finish; Pause blocks until every
// live worker has yielded its running permit, so once it returns no new
// item will start. Pausing a paused pool is a no-op; a finished pool
// returns ErrFinished.
func (p *Pool[T]) Pause() error {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	switch p.Status() {
	case StatusFinished:
		return ErrFinished
	case StatusPaused:
		return nil
	}

	// Withhold every running permit so no worker passes the gate.
	for i := 0; i < p.permits; i++ {
		p.gate.Wait()
	}
	p.setStatus(StatusPaused)
	return nil
}

// Continue resumes a paused pool. Continuing a running pool is a no-op;
// a finished pool returns ErrFinished.
func (p *Pool[T]) Continue() error {
	p.ctl.Lock()
	defer p.ctl.Unlock()
	return p.resume()
}

// resume reopens the gate for every tracked worker. Caller holds ctl.
func (p *Pool[T]) resume() error {
	switch p.Status() {
	case StatusFinished:
		return ErrFinished
	case StatusRunning:
		return nil
	}
	p.setStatus(StatusRunning)
	p.gate.Post(p.permits)
	return nil
}

// SetSize adjusts the worker count to target. Growing spawns workers
// immediately. Shrinking retires the most recently added workers
// cooperatively: each one exits after finishing the item it has already
// claimed, never mid-execution, so Size may exceed target briefly.
//
// Returns ErrSizeLimit if target exceeds Config.SizeLimit, ErrInvalidSize
// if it is negative and ErrFinished once the pool is finished; in every
// error case the pool is left unchanged.
func (p *Pool[T]) SetSize(target int) error {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if p.Status() == StatusFinished {
		return ErrFinished
	}
	if target < 0 {
		return ErrInvalidSize
	}
	if target > p.cfg.SizeLimit {
		return ErrSizeLimit
	}

	switch {
	case target > p.permits:
		p.spawn(target - p.permits)
	case target < p.permits:
		p.retire(p.permits - target)
	}
	return nil
}

// spawn starts n workers and accounts for their running permits. While
// paused the new permits stay withheld; Continue posts the updated count.
// Caller holds ctl, except during construction.
func (p *Pool[T]) spawn(n int) {
	p.wmu.Lock()
	for i := 0; i < n; i++ {
		w := &worker[T]{
			id:   uuid.New(),
			pool: p,
			done: make(chan struct{}),
		}
		p.workers[w.id] = w
		p.order = append(p.order, w.id)
		go w.run()
	}
	p.wmu.Unlock()

	p.permits += n
	if p.Status() == StatusRunning {
		p.gate.Post(n)
	}
}

// retire schedules n workers for cooperative stand-down, newest first, and
// withdraws one running permit per victim to keep the gate in step with
// the worker count. While paused the permits are already withheld, so only
// the bookkeeping changes. Caller holds ctl.
func (p *Pool[T]) retire(n int) {
	p.wmu.Lock()
	p.rmu.Lock()
	marked := 0
	for i := len(p.order) - 1; i >= 0 && marked < n; i-- {
		id := p.order[i]
		if _, ok := p.retiring[id]; ok {
			continue
		}
		p.retiring[id] = struct{}{}
		marked++
	}
	p.rmu.Unlock()
	p.wmu.Unlock()

	p.permits -= marked
	if p.Status() == StatusRunning {
		for i := 0; i < marked; i++ {
			p.gate.Wait()
		}
	}
}

// Finish shuts the pool down and is terminal. With drainFirst it blocks
// until the queue is empty and no item is executing before entering the
// finished state; otherwise queued items are discarded and only items a
// worker has already claimed complete. Either way every worker is retired
// cooperatively and Finish blocks until all of them have exited.
//
// A paused pool is resumed first so queued or draining work can actually
// run. Draining needs at least one worker when items are queued.
//
// Finish must not be called from inside a running work item: the join
// would deadlock on the calling worker. The join has no built-in timeout;
// a caller needing bounded shutdown must wrap it.
func (p *Pool[T]) Finish(drainFirst bool) error {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if p.Status() == StatusFinished {
		return ErrFinished
	}

	if drainFirst {
		atomic.StoreInt32(&p.draining, 1)
	}
	p.resume()

	if drainFirst {
		// Drained means empty queue AND zero in-flight items. Workers
		// post on every transition into that state; the timed re-check
		// makes stale posts harmless.
		for !p.isDrained() {
			p.drain.TimedWait(p.cfg.PollInterval)
		}
	}

	// The terminal store shares the queue lock with Push's status check:
	// a racing Push either inserts before FINISHED, in which case the
	// still-live workers drain the item, or observes FINISHED and refuses.
	p.qmu.Lock()
	p.setStatus(StatusFinished)
	p.qmu.Unlock()

	discarded := 0
	if !drainFirst {
		discarded = p.discardQueued()
	}

	// Workers observe the terminal state at their next checkpoint.
	p.wmu.Lock()
	join := make([]chan struct{}, 0, len(p.workers))
	for _, w := range p.workers {
		join = append(join, w.done)
	}
	p.wmu.Unlock()
	for _, done := range join {
		<-done
	}

	p.permits = 0
	p.log.Debug("pool finished",
		zap.Bool("drained", drainFirst),
		zap.Int("discarded", discarded),
	)
	return nil
}

// Size returns the number of live workers. It is a snapshot: during a
// shrink, workers already scheduled for retirement are counted until they
// actually exit.
func (p *Pool[T]) Size() int {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return len(p.workers)
}

// Stats returns a snapshot of pool activity.
func (p *Pool[T]) Stats() Stats {
	st := p.stats.get()
	p.qmu.Lock()
	st.Queued = int64(p.queue.len())
	st.InFlight = int64(p.inFlight)
	p.qmu.Unlock()
	st.Workers = p.Size()
	return st
}

// take pops the highest-priority item and marks it in-flight. Called only
// after a successful wait on the work semaphore, so the queue must hold an
// item; anything else is a permit/queue desync, which is a programming
// error, not a recoverable condition.
func (p *Pool[T]) take() T {
	p.qmu.Lock()
	defer p.qmu.Unlock()
	if p.queue.len() == 0 {
		panic("throng: work permit with no queued item")
	}
	p.inFlight++
	return p.queue.pop()
}

// itemDone retires one in-flight item and signals the drain condition when
// the pool transitions to drained.
func (p *Pool[T]) itemDone() {
	p.qmu.Lock()
	p.inFlight--
	drained := p.queue.len() == 0 && p.inFlight == 0
	p.qmu.Unlock()
	if drained {
		p.drain.Post(1)
	}
}

// isDrained reports whether the queue is empty and nothing is executing.
func (p *Pool[T]) isDrained() bool {
	p.qmu.Lock()
	defer p.qmu.Unlock()
	return p.queue.len() == 0 && p.inFlight == 0
}

// discardQueued drops queued-but-unclaimed items, consuming the matching
// work permit for each so the permit/queue pairing never drifts. An item a
// worker has already claimed a permit for is left to that worker.
func (p *Pool[T]) discardQueued() int {
	p.qmu.Lock()
	defer p.qmu.Unlock()
	n := 0
	for p.queue.len() > 0 && p.work.TryWait() {
		p.queue.pop()
		n++
	}
	return n
}

// shouldStop reports whether workers must exit because the pool entered
// the terminal state: immediately when not draining, or once the queue has
// been observed drained.
func (p *Pool[T]) shouldStop() bool {
	if p.Status() != StatusFinished {
		return false
	}
	return atomic.LoadInt32(&p.draining) == 0 || p.isDrained()
}

// retired reports whether id is scheduled for stand-down.
func (p *Pool[T]) retired(id uuid.UUID) bool {
	p.rmu.Lock()
	defer p.rmu.Unlock()
	_, ok := p.retiring[id]
	return ok
}

// forget removes an exiting worker from the worker set and the retirement
// set. Called only by the worker itself.
func (p *Pool[T]) forget(id uuid.UUID) {
	p.wmu.Lock()
	delete(p.workers, id)
	for i, other := range p.order {
		if other == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.wmu.Unlock()

	p.rmu.Lock()
	delete(p.retiring, id)
	p.rmu.Unlock()
}
