package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassengerQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with passengers [A, B]
	q := &PassengerQueue{}
	a, b := NewPassenger(1, 5, "A"), NewPassenger(2, 5, "B")
	q.Enqueue(a)
	q.Enqueue(b)

	// WHEN Peek() is called
	got := q.Peek()

	// THEN it returns the front element without removing it
	assert.Same(t, a, got)
	assert.Equal(t, 2, q.Len())
}

func TestPassengerQueue_Empty_ReturnsNil(t *testing.T) {
	q := &PassengerQueue{}
	assert.Nil(t, q.Peek())
	assert.Nil(t, q.Dequeue())
	assert.Equal(t, "[]", q.String())
}

func TestPassengerQueue_Dequeue_IsFIFO(t *testing.T) {
	// GIVEN three passengers enqueued in order
	q := &PassengerQueue{}
	for i := 0; i < 3; i++ {
		q.Enqueue(NewPassenger(i, 9, ""))
	}
	assert.Equal(t, "[0 1 2]", q.String())

	// WHEN all are dequeued
	var ids []int
	for q.Len() > 0 {
		ids = append(ids, q.Dequeue().ID())
	}

	// THEN they come out in arrival order
	assert.Equal(t, []int{0, 1, 2}, ids)
}

func TestPassengerQueue_Enqueue_NilPanics(t *testing.T) {
	q := &PassengerQueue{}
	assert.Panics(t, func() { q.Enqueue(nil) })
}
