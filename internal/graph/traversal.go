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

package graph

import (
	"context"
	"fmt"

	"github.com/googlecloudplatform/graphwalk/internal/locker"
	"github.com/googlecloudplatform/graphwalk/internal/workerpool"
)

type VisitState uint8

const (
	NotVisited VisitState = iota
	Processing
	Done
)

func (s VisitState) String() string {
	switch s {
	case NotVisited:
		return "NotVisited"
	case Processing:
		return "Processing"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("VisitState(%d)", uint8(s))
	}
}

// Traversal sums the infos of every node reachable from a start node. Each
// node is processed by its own pool task; processing a node claims its
// unvisited neighbours and enqueues a task for each of them, so every
// reachable node is counted exactly once.
type Traversal struct {
	g    *Graph
	pool workerpool.Enqueuer

	mu locker.RWLocker

	// GUARDED_BY(mu)
	state []VisitState

	// GUARDED_BY(mu)
	sum int64

	// INVARIANT: visited <= len(state)
	//
	// GUARDED_BY(mu)
	visited int
}

func NewTraversal(g *Graph) *Traversal {
	t := &Traversal{
		g:     g,
		state: make([]VisitState, len(g.Nodes)),
	}
	t.mu = locker.NewRW("Traversal", t.checkInvariants)
	return t
}

func (t *Traversal) checkInvariants() {
	if len(t.state) != len(t.g.Nodes) {
		panic(fmt.Sprintf("Traversal: %d visit states for %d nodes", len(t.state), len(t.g.Nodes)))
	}
	if t.visited > len(t.state) {
		panic(fmt.Sprintf("Traversal: visited %d of %d nodes", t.visited, len(t.state)))
	}
}

// Start claims the start node and enqueues its task on pool. Tasks for the
// rest of the component are enqueued on the same pool as they are found.
// Wait for the pool to complete before reading Sum.
func (t *Traversal) Start(pool workerpool.Enqueuer, start uint32) error {
	if int64(start) >= int64(len(t.g.Nodes)) {
		return fmt.Errorf("start node %d out of range: graph has %d nodes", start, len(t.g.Nodes))
	}

	t.mu.Lock()
	if t.pool != nil {
		t.mu.Unlock()
		return fmt.Errorf("traversal already started")
	}
	t.pool = pool
	t.state[start] = Processing
	t.mu.Unlock()

	pool.Enqueue(t.nodeTask(start))
	return nil
}

func (t *Traversal) nodeTask(idx uint32) workerpool.Task {
	return workerpool.NewTask(t.process, idx, nil)
}

func (t *Traversal) process(idx uint32) {
	node := &t.g.Nodes[idx]
	var claimed []uint32

	t.mu.Lock()
	if t.state[idx] != Done {
		t.sum += int64(node.Info)
		t.visited++
		t.state[idx] = Done
	}
	for _, n := range node.Neighbours {
		if t.state[n] == NotVisited {
			t.state[n] = Processing
			claimed = append(claimed, n)
		}
	}
	t.mu.Unlock()

	for _, n := range claimed {
		t.pool.Enqueue(t.nodeTask(n))
	}
}

// Sum returns the sum of the infos of the nodes processed so far.
func (t *Traversal) Sum() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sum
}

// Visited returns the number of nodes processed so far.
func (t *Traversal) Visited() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visited
}

// State returns the visit state of node idx.
func (t *Traversal) State(idx uint32) VisitState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state[idx]
}

// SumReachable traverses g from start on pool and returns the sum of the
// reachable nodes' infos. It returns ctx's error if ctx ends first; the pool
// then still holds the unfinished traversal.
func SumReachable(ctx context.Context, pool workerpool.WorkerPool, g *Graph, start uint32) (int64, error) {
	t := NewTraversal(g)
	if err := t.Start(pool, start); err != nil {
		return 0, err
	}
	if err := pool.WaitForCompletionContext(ctx); err != nil {
		return 0, fmt.Errorf("waiting for traversal: %w", err)
	}
	return t.Sum(), nil
}
