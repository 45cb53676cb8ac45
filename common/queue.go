// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

// node is a single link of the queue.
type node[T any] struct {
	value T
	next  *node[T]
}

// Queue is an unbounded FIFO backed by a singly linked list.
//
// Queue is not safe for concurrent use. Callers that share a queue between
// goroutines guard it with their own lock.
type Queue[T any] struct {
	head, tail *node[T]
	size       int
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return q.size
}

// Peek returns the head of the queue without removing it, or the zero value
// of T if the queue is empty.
func (q *Queue[T]) Peek() T {
	if q.head == nil {
		var zero T
		return zero
	}
	return q.head.value
}

// Push appends value at the tail.
func (q *Queue[T]) Push(value T) {
	n := &node[T]{value: value}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.size++
}

// Pop removes and returns the head of the queue, or the zero value of T if
// the queue is empty. Use TryPop when the zero value is a legal item.
func (q *Queue[T]) Pop() T {
	v, _ := q.TryPop()
	return v
}

// TryPop removes and returns the head of the queue. ok is false if the queue
// was empty.
func (q *Queue[T]) TryPop() (value T, ok bool) {
	n := q.head
	if n == nil {
		return value, false
	}
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--

	value = n.value
	// Unlink so a popped item is not kept alive by the node chain.
	var zero T
	n.value, n.next = zero, nil
	return value, true
}

// Drain pops every item in FIFO order and passes it to fn. The queue is empty
// when Drain returns, and Drain returns the number of items drained.
func (q *Queue[T]) Drain(fn func(T)) int {
	count := 0
	for {
		v, ok := q.TryPop()
		if !ok {
			return count
		}
		count++
		fn(v)
	}
}
