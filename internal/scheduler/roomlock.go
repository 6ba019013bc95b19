package scheduler

import "sync"

// RoomLocker serializes check-then-write sections per room identifier.
// Operations on distinct rooms proceed in parallel; operations on the same
// room fully complete (commit or abort) before the next one starts its
// overlap check. Lock entries are reference counted and dropped once the last
// holder releases, so the map does not grow with the number of rooms ever
// touched.
type RoomLocker struct {
	mu    sync.Mutex
	rooms map[string]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

// NewRoomLocker constructs an empty locker.
func NewRoomLocker() *RoomLocker {
	return &RoomLocker{rooms: make(map[string]*roomLock)}
}

// Acquire blocks until the exclusive section for roomID is held and returns
// the release function. Callers must release on every exit path; a single
// room lock is ever held per operation, so ordering deadlock cannot occur.
func (l *RoomLocker) Acquire(roomID string) (release func()) {
	l.mu.Lock()
	entry, ok := l.rooms[roomID]
	if !ok {
		entry = &roomLock{}
		l.rooms[roomID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()
			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.rooms, roomID)
			}
			l.mu.Unlock()
		})
	}
}
