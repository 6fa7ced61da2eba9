package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Queue is an in-memory FIFO of pending notifications.
type Queue struct {
	mu      sync.Mutex
	pending []Notification
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: make([]Notification, 0)}
}

// Push appends n, assigning an id when it has none, and returns the stored
// value.
func (q *Queue) Push(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()

	return n
}

// Pending returns a copy of the queued notifications without removing them.
func (q *Queue) Pending() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.pending))
	copy(out, q.pending)
	return out
}

// Consume removes and returns every queued notification.
func (q *Queue) Consume() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = make([]Notification, 0)
	return out
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}
