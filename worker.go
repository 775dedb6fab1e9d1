package throng

import (
	"runtime/debug"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// worker is one pool thread. It repeatedly claims a running permit, waits
// for work and executes items until it is retired or the pool finishes.
type worker[T Item[T]] struct {
	id   uuid.UUID
	pool *Pool[T]
	done chan struct{}
}

// run is the main worker loop.
//
// Every iteration starts at a stand-down checkpoint that runs without the
// gate held, so a worker can exit even while the pool is paused or has no
// permits for it. Both gate and work acquisition use bounded waits; a
// worker that times out simply goes back to the checkpoint, which is what
// lets retirement and shutdown take effect on an idle pool.
func (w *worker[T]) run() {
	p := w.pool
	p.log.Debug("worker started", zap.Stringer("worker", w.id))
	defer func() {
		p.forget(w.id)
		p.log.Debug("worker stopped", zap.Stringer("worker", w.id))
		close(w.done)
	}()

	for {
		if p.retired(w.id) || p.shouldStop() {
			return
		}

		// Pause/resize gate.
		if !p.gate.TimedWait(p.cfg.PollInterval) {
			continue
		}
		if w.serve() {
			return
		}
	}
}

// serve runs one iteration with a gate permit held; the permit is returned
// on every path, which is what lets Pause wait out in-flight items. It
// reports whether the worker must exit.
func (w *worker[T]) serve() bool {
	p := w.pool
	defer p.gate.Post(1)

	if !p.work.TimedWait(p.cfg.PollInterval) {
		return false
	}
	item := p.take()

	// Retirement takes effect only at this checkpoint: the claimed item
	// is executed, never forfeited.
	retiring := p.retired(w.id)
	w.execute(item)
	return retiring
}

// execute runs a single item outside all pool locks. A panicking item is
// recovered, reported and counted; it never takes the worker down.
func (w *worker[T]) execute(item T) {
	p := w.pool
	defer p.itemDone()
	defer func() {
		if r := recover(); r != nil {
			p.stats.addFailed(1)
			p.log.Error("work item panicked",
				zap.Stringer("worker", w.id),
				zap.Error(&PanicError{Value: r, Stack: string(debug.Stack())}),
			)
			if p.cfg.PanicHandler != nil {
				p.cfg.PanicHandler(r)
			}
			return
		}
		p.stats.addCompleted(1)
	}()

	item.Run()
}
