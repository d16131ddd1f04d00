package moderation

import (
	"sync"

	"github.com/plugfox/toxy-gram-server/internal/model"
)

// KeyedMutex serializes the read-modify-write cycle per user, so two
// concurrent messages from the same user cannot both read the same
// stale record. Different users never wait on each other.
type KeyedMutex struct {
	mutex sync.Mutex
	locks map[model.UserID]*keyedLock
}

type keyedLock struct {
	mutex sync.Mutex
	refs  int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[model.UserID]*keyedLock),
	}
}

// Lock acquires the lock for the given user and returns the unlock function.
// Idle entries are removed once the last holder unlocks.
func (km *KeyedMutex) Lock(id model.UserID) func() {
	km.mutex.Lock()
	lock, ok := km.locks[id]
	if !ok {
		lock = &keyedLock{}
		km.locks[id] = lock
	}
	lock.refs++
	km.mutex.Unlock()

	lock.mutex.Lock()

	return func() {
		lock.mutex.Unlock()

		km.mutex.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(km.locks, id)
		}
		km.mutex.Unlock()
	}
}
