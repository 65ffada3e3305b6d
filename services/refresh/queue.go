package refresh

import (
	"context"
	"sync"

	"trafficdots-go/types"
)

// Queue is the depth-one command queue between the coordinator and the
// pipeline. Unlike a channel its waiting command can be inspected, which the
// abort probe needs.
type Queue struct {
	mu    sync.Mutex
	cmd   types.RefreshCommand
	full  bool
	space chan struct{}
	ready chan struct{}
}

func NewQueue() *Queue {
	return &Queue{space: make(chan struct{}, 1), ready: make(chan struct{}, 1)}
}

func signal(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

// Send blocks until the queue is empty, then stores cmd.
func (q *Queue) Send(ctx context.Context, cmd types.RefreshCommand) error {
	for {
		q.mu.Lock()
		if !q.full {
			q.cmd, q.full = cmd, true
			q.mu.Unlock()
			signal(q.ready)
			return nil
		}
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.space:
		}
	}
}

// Next blocks until a command is waiting and takes it.
func (q *Queue) Next(ctx context.Context) (types.RefreshCommand, error) {
	for {
		q.mu.Lock()
		if q.full {
			cmd := q.cmd
			q.full = false
			q.mu.Unlock()
			signal(q.space)
			return cmd, nil
		}
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-q.ready:
		}
	}
}

// Peek returns the waiting command without taking it.
func (q *Queue) Peek() (types.RefreshCommand, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cmd, q.full
}

// Len is 1 while a command is waiting.
func (q *Queue) Len() int {
	if _, ok := q.Peek(); ok {
		return 1
	}
	return 0
}
