package functions

import (
	"sync"
	"sync/atomic"
)

var (
	instance     atomic.Pointer[Factory]
	instanceOnce sync.Once
)

// Initialize builds and seals the process-wide factory from modules. It must
// be called exactly once, before any call to Instance; a second call panics.
func Initialize(modules ...Module) *Factory {
	initialized := false
	instanceOnce.Do(func() {
		instance.Store(Build(modules...))
		initialized = true
	})
	if !initialized {
		panic(FactoryName + ": process-wide factory is already initialized")
	}
	return instance.Load()
}

// Instance returns the process-wide factory. It panics if Initialize has not
// been called.
func Instance() *Factory {
	f := instance.Load()
	if f == nil {
		panic(FactoryName + ": process-wide factory is not initialized")
	}
	return f
}
