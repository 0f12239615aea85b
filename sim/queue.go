// Implements the PassengerQueue, which holds the riders waiting at a stop.
// Passengers are enqueued on arrival and leave from the front when they board.

package sim

import (
	"fmt"
	"strings"
)

// PassengerQueue is a FIFO queue of passengers waiting at a stop.
type PassengerQueue struct {
	queue []*Passenger
}

// Enqueue adds a passenger to the back of the queue.
func (pq *PassengerQueue) Enqueue(p *Passenger) {
	if p == nil {
		panic("Enqueue: passenger must not be nil")
	}
	pq.queue = append(pq.queue, p)
}

// Len returns the number of waiting passengers.
func (pq *PassengerQueue) Len() int {
	return len(pq.queue)
}

// Peek returns the passenger at the front without removing it.
// Returns nil if the queue is empty.
func (pq *PassengerQueue) Peek() *Passenger {
	if len(pq.queue) == 0 {
		return nil
	}
	return pq.queue[0]
}

// Dequeue removes and returns the front passenger, or nil when empty.
func (pq *PassengerQueue) Dequeue() *Passenger {
	if len(pq.queue) == 0 {
		return nil
	}
	p := pq.queue[0]
	pq.queue[0] = nil
	pq.queue = pq.queue[1:]
	return p
}

// Items returns the queue contents in FIFO order.
// The returned slice is the queue's internal storage; callers MUST NOT
// append to or reslice it.
func (pq *PassengerQueue) Items() []*Passenger {
	return pq.queue
}

func (pq *PassengerQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range pq.queue {
		sb.WriteString(fmt.Sprint(p.ID()))
		if i < len(pq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
