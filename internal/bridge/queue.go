package bridge

import (
	"context"
	"sync"
)

// taskQueue is the bounded buffer between the intake loop and the
// publisher. Single producer, single consumer.
//
// Enqueue never blocks. At capacity the oldest task for the same topic is
// evicted if one is queued, otherwise the oldest task overall: under
// sustained backpressure the newest value for each topic wins, which is the
// right degradation for retained last-known-value topics.
type taskQueue struct {
	mu       sync.Mutex
	capacity int
	tasks    []PublishTask
	closed   bool
	dropped  uint64

	// notify wakes the consumer; capacity 1 coalesces wakeups.
	notify chan struct{}
}

func newTaskQueue(capacity int) *taskQueue {
	return &taskQueue{
		capacity: capacity,
		notify:   make(chan struct{}, 1),
	}
}

// Enqueue appends a task, evicting as needed. Returns false once the queue
// is closed.
func (q *taskQueue) Enqueue(task PublishTask) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if len(q.tasks) >= q.capacity {
		evict := 0
		for i, queued := range q.tasks {
			if queued.Topic == task.Topic {
				evict = i
				break
			}
		}
		q.tasks = append(q.tasks[:evict], q.tasks[evict+1:]...)
		q.dropped++
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Requeue pushes a task back to the front after a failed delivery,
// preserving FIFO order. Bypasses the capacity check: the consumer holds at
// most one task in flight, so the overshoot is bounded at one.
func (q *taskQueue) Requeue(task PublishTask) {
	q.mu.Lock()
	q.tasks = append([]PublishTask{task}, q.tasks...)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Dequeue blocks until a task is available, the context is cancelled, or
// the queue is closed and drained. A closed queue keeps yielding buffered
// tasks so shutdown can flush the backlog.
func (q *taskQueue) Dequeue(ctx context.Context) (PublishTask, bool) {
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			task := q.tasks[0]
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			return task, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return PublishTask{}, false
		}
		select {
		case <-ctx.Done():
			return PublishTask{}, false
		case <-q.notify:
		}
	}
}

// Close stops further enqueues. Buffered tasks remain dequeueable.
func (q *taskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of buffered tasks.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Dropped returns the count of tasks evicted under backpressure.
func (q *taskQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
