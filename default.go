package throng

import "github.com/mkeidar/throng/singleton"

// defaultPool holds the process-wide shared pool. It is constructed on
// first use and lives until process exit.
var defaultPool = singleton.New(func() *Pool[Func] {
	p, err := New[Func](0)
	if err != nil {
		// The default configuration cannot fail validation.
		panic(err)
	}
	return p
})

// Default returns a process-wide shared pool of Func items, lazily
// constructed on the first call. Every caller receives the same instance,
// so none of them may Finish it.
func Default() *Pool[Func] {
	return defaultPool.GetInstance()
}
