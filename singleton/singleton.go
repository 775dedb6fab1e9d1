// Package singleton provides lazily-initialized, process-lifetime storage
// for a single shared instance of a type.
package singleton

import "sync"

// Singleton holds at most one instance of C. The instance is constructed on
// the first call to GetInstance and lives until process exit; there is no
// reset. The constructor must not call GetInstance on the same Singleton,
// directly or indirectly.
type Singleton[C any] struct {
	once  sync.Once
	build func() *C
	inst  *C
}

// New returns a Singleton that will construct its instance with build.
// Construction does not happen until the first GetInstance call.
func New[C any](build func() *C) *Singleton[C] {
	return &Singleton[C]{build: build}
}

// GetInstance returns the shared instance, constructing it exactly once.
// Safe for concurrent use; concurrent callers block until construction
// completes and then all receive the same pointer.
func (s *Singleton[C]) GetInstance() *C {
	s.once.Do(func() {
		s.inst = s.build()
	})
	return s.inst
}
