package sync

import stdsync "sync"

// keyedMutex serializes work per key. Reconciliation is a fetch-then-replace
// with no optimistic concurrency token on the remote side, so two concurrent
// passes for the same assistant would silently lose one writer's update.
type keyedMutex struct {
	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*stdsync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Locks are never
// evicted; the key space is bounded by the number of assistants.
func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &stdsync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()
	lock.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	lock := k.locks[key]
	k.mu.Unlock()
	lock.Unlock()
}
