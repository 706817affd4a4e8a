package usecase

import "sync"

// UserGate serializes allocate/release sequences for one exchanger. Two
// different users proceed fully in parallel - the gate is per-key, not
// global. In-process only: with multiple replicas the conditional ledger
// update is what detects the race.
type UserGate struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserGate() *UserGate {
	return &UserGate{locks: make(map[string]*sync.Mutex)}
}

// Acquire blocks until the user's lock is held and returns the release
// function. Locks are never evicted: the active exchanger set is small.
func (g *UserGate) Acquire(userID string) func() {
	g.mu.Lock()
	lock, ok := g.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[userID] = lock
	}
	g.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
