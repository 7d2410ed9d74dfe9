package queue

import (
	"fmt"
	"sync"
)

const (
	// QueueBufferSize represents the maximum size of a queue
	QueueBufferSize = 1024
)

// InMemoryQueue implements an in-memory queue.
type InMemoryQueue struct {
	ch   chan interface{}
	lock sync.RWMutex
}

// NewInMemoryQueue creates a new queue.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		ch: make(chan interface{}, QueueBufferSize),
	}
}

// Enqueue adds an item to the end of the queue. A full queue rejects
// the item rather than blocking the caller.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	select {
	case q.ch <- item:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.ch)
}

// ReadAllMessages reads all pending messages in the queue.
func (q *InMemoryQueue) ReadAllMessages() ([]interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	var items []interface{}
	for len(q.ch) > 0 {
		items = append(items, <-q.ch)
	}
	return items, nil
}
