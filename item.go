package throng

// Item is the contract for work submitted to a Pool: it must be runnable
// with no arguments and totally ordered against its own type. The pool
// takes ownership of an item at Push; the submitter must not retain or
// mutate it afterwards.
//
// Less reports whether the receiver has lower priority than other. Items
// that compare higher are dequeued first; items that compare equal are
// dequeued in the order they were pushed.
type Item[T any] interface {
	// Run executes the item. It is always called outside the pool's locks.
	Run()

	// Less defines the total order used for scheduling.
	Less(other T) bool
}

// Func is a ready-made Item wrapping a closure with an integer priority,
// so the pool can be used without defining an item type. Higher Priority
// values run first.
type Func struct {
	Priority int
	Fn       func()
}

// Run calls the wrapped closure. A nil closure is a no-op.
func (f Func) Run() {
	if f.Fn != nil {
		f.Fn()
	}
}

// Less orders Funcs by Priority.
func (f Func) Less(other Func) bool {
	return f.Priority < other.Priority
}
