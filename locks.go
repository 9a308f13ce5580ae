package galley

import "sync"

// orderLocks serializes lifecycle operations per order. Acquisition is
// non-blocking: a caller that finds the order busy loses the race
// immediately instead of queueing behind the winner.
type orderLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newOrderLocks() *orderLocks {
	return &orderLocks{held: make(map[string]struct{})}
}

// TryAcquire claims the order, returning false if another operation is
// already in flight for it.
func (l *orderLocks) TryAcquire(orderID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[orderID]; busy {
		return false
	}
	l.held[orderID] = struct{}{}
	return true
}

// Release frees the order for the next operation.
func (l *orderLocks) Release(orderID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, orderID)
}
