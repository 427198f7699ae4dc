package extractor

import "sync/atomic"

// hookLock provides non-blocking lock semantics for the pipeline hook slot
// using atomic operations. The slot admits one interceptor at a time;
// a failed acquire surfaces as ErrInterceptorActive instead of blocking.
type hookLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *hookLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the holder that successfully acquired it.
func (l *hookLock) Release() {
	l.state.Store(0)
}
