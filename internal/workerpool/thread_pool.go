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

package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/googlecloudplatform/graphwalk/common"
	"github.com/googlecloudplatform/graphwalk/internal/locker"
	"github.com/googlecloudplatform/graphwalk/internal/logger"
	"github.com/googlecloudplatform/graphwalk/metrics"
	"github.com/jacobsa/timeutil"
)

// ErrNoWorkers is returned by NewThreadPool for a zero worker count.
var ErrNoWorkers = errors.New("workerpool: worker count must be at least 1")

type queuedTask struct {
	task       Task
	enqueuedAt time.Time
}

// ThreadPool runs tasks on a fixed number of goroutines pulling from one FIFO
// queue.
//
// Termination is detected with a count of outstanding tasks: Enqueue
// increments it, and a worker decrements it only after the task's Execute and
// Release have both returned. Any task enqueued by a running task is therefore
// counted before its parent stops being counted, and the count reaching zero
// means no work is queued, running, or about to be enqueued.
type ThreadPool struct {
	/////////////////////////
	// Constant data
	/////////////////////////

	id           string
	name         string
	workerCount  uint32
	clock        timeutil.Clock
	metricHandle metrics.MetricHandle

	/////////////////////////
	// Mutable state
	/////////////////////////

	mu sync.Locker

	// Signalled when the queue gains a task, when outstanding drops to zero,
	// when shutdown is requested, and when a completion waiter's context ends.
	cond *sync.Cond

	// INVARIANT: outstanding == queue.Len() + running + discarding
	//
	// GUARDED_BY(mu)
	queue *common.Queue[queuedTask]

	// Tasks accepted by Enqueue that have not finished yet.
	//
	// INVARIANT: outstanding >= 0
	//
	// GUARDED_BY(mu)
	outstanding int64

	// Set once by Shutdown and never cleared.
	//
	// GUARDED_BY(mu)
	shutdownRequested bool

	// Workers blocked waiting for a task, and workers running one.
	//
	// INVARIANT: waiting + running <= workerCount
	//
	// GUARDED_BY(mu)
	waiting, running uint32

	// Tasks popped by Shutdown that are still being released.
	//
	// GUARDED_BY(mu)
	discarding int64

	// Goroutines blocked in WaitForCompletion. Enqueue broadcasts instead of
	// signalling while there are any, so the wakeup reaches a worker.
	//
	// GUARDED_BY(mu)
	completionWaiters int

	// GUARDED_BY(mu)
	enqueued, completed, failed, discarded uint64

	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Stats is a point-in-time snapshot of a pool.
type Stats struct {
	ID                string
	Name              string
	Workers           uint32
	Waiting           uint32
	Running           uint32
	Queued            int
	Outstanding       int64
	Enqueued          uint64
	Completed         uint64
	Failed            uint64
	Discarded         uint64
	ShutdownRequested bool
}

// Option configures a ThreadPool.
type Option func(*ThreadPool)

// WithMetricHandle records pool metrics on h instead of discarding them.
func WithMetricHandle(h metrics.MetricHandle) Option {
	return func(p *ThreadPool) {
		p.metricHandle = h
	}
}

// WithClock sets the clock used to time tasks.
func WithClock(c timeutil.Clock) Option {
	return func(p *ThreadPool) {
		p.clock = c
	}
}

// WithName names the pool in logs and lock debugging output.
func WithName(name string) Option {
	return func(p *ThreadPool) {
		p.name = name
	}
}

// NewThreadPool starts a pool of workerCount workers, all initially waiting
// for work.
func NewThreadPool(workerCount uint32, opts ...Option) (*ThreadPool, error) {
	if workerCount == 0 {
		return nil, ErrNoWorkers
	}

	p := &ThreadPool{
		id:           uuid.NewString(),
		name:         "pool",
		workerCount:  workerCount,
		clock:        timeutil.RealClock(),
		metricHandle: metrics.NewNoopMetrics(),
		queue:        common.NewQueue[queuedTask](),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.mu = locker.New("ThreadPool-"+p.name, p.checkInvariants)
	p.cond = sync.NewCond(p.mu)

	for i := uint32(0); i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	logger.Debugf("ThreadPool %s (%s): started %d workers", p.name, p.id, workerCount)
	return p, nil
}

// ID returns the unique identifier of the pool.
func (p *ThreadPool) ID() string {
	return p.id
}

func (p *ThreadPool) checkInvariants() {
	if p.outstanding < 0 {
		panic(fmt.Sprintf("ThreadPool %s: negative outstanding count %d", p.id, p.outstanding))
	}

	if got := int64(p.queue.Len()) + int64(p.running) + p.discarding; got != p.outstanding {
		panic(fmt.Sprintf("ThreadPool %s: outstanding is %d but %d tasks are queued, running or being discarded", p.id, p.outstanding, got))
	}

	if p.waiting+p.running > p.workerCount {
		panic(fmt.Sprintf("ThreadPool %s: %d waiting and %d running workers exceed the pool size %d", p.id, p.waiting, p.running, p.workerCount))
	}
}

// Enqueue appends task to the queue. It may be called from any goroutine,
// including a worker running another task.
//
// Once shutdown has been requested the task is released without running and
// is not counted as outstanding.
func (p *ThreadPool) Enqueue(task Task) {
	if task == nil {
		panic("workerpool: Enqueue called with a nil task")
	}

	p.mu.Lock()
	if p.shutdownRequested {
		p.discarded++
		p.mu.Unlock()

		logger.Warnf("ThreadPool %s (%s): discarding task %s enqueued after shutdown", p.name, p.id, taskName(task))
		p.releaseDiscarded(task)
		p.metricHandle.PoolTasksFinishedCount(1, metrics.TaskStatusDiscardedAttr)
		return
	}

	p.queue.Push(queuedTask{task: task, enqueuedAt: p.clock.Now()})
	p.outstanding++
	p.enqueued++
	if p.completionWaiters > 0 {
		p.cond.Broadcast()
	} else {
		p.cond.Signal()
	}
	p.mu.Unlock()

	p.metricHandle.PoolTasksEnqueuedCount(1)
	p.metricHandle.PoolOutstandingTasks(1)
}

// WaitForCompletion blocks until the outstanding count is zero.
func (p *ThreadPool) WaitForCompletion() {
	_ = p.WaitForCompletionContext(context.Background())
}

// WaitForCompletionContext blocks until the outstanding count is zero or ctx
// is done, whichever happens first.
func (p *ThreadPool) WaitForCompletionContext(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.cond.Broadcast()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.completionWaiters++
	defer func() { p.completionWaiters-- }()

	for p.outstanding > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.cond.Wait()
	}
	return nil
}

// Shutdown requests shutdown, waits for every worker to finish its current
// task and exit, then releases the tasks still queued without running them.
// Discarded tasks count as finished, so WaitForCompletion returns once
// Shutdown does. Later calls wait for the first one and return.
func (p *ThreadPool) Shutdown() {
	p.shutdownOnce.Do(p.shutdown)
}

func (p *ThreadPool) shutdown() {
	p.mu.Lock()
	p.shutdownRequested = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	var leftover []Task
	p.queue.Drain(func(qt queuedTask) {
		leftover = append(leftover, qt.task)
	})
	p.discarding = int64(len(leftover))
	p.mu.Unlock()

	for _, task := range leftover {
		p.releaseDiscarded(task)

		p.mu.Lock()
		p.discarding--
		p.outstanding--
		p.discarded++
		if p.outstanding == 0 {
			p.cond.Broadcast()
		}
		p.mu.Unlock()

		p.metricHandle.PoolOutstandingTasks(-1)
		p.metricHandle.PoolTasksFinishedCount(1, metrics.TaskStatusDiscardedAttr)
	}

	if len(leftover) > 0 {
		logger.Warnf("ThreadPool %s (%s): discarded %d queued tasks on shutdown", p.name, p.id, len(leftover))
	}
	logger.Debugf("ThreadPool %s (%s): shut down", p.name, p.id)
}

// Stats returns a snapshot of the pool counters.
func (p *ThreadPool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		ID:                p.id,
		Name:              p.name,
		Workers:           p.workerCount,
		Waiting:           p.waiting,
		Running:           p.running,
		Queued:            p.queue.Len(),
		Outstanding:       p.outstanding,
		Enqueued:          p.enqueued,
		Completed:         p.completed,
		Failed:            p.failed,
		Discarded:         p.discarded,
		ShutdownRequested: p.shutdownRequested,
	}
}

////////////////////////////////////////////////////////////////////////
// Workers
////////////////////////////////////////////////////////////////////////

func (p *ThreadPool) worker(id uint32) {
	defer p.wg.Done()

	for {
		qt, ok := p.dequeue()
		if !ok {
			logger.Tracef("ThreadPool %s (%s): worker %d exiting", p.name, p.id, id)
			return
		}
		p.run(qt)
	}
}

// dequeue blocks until a task is available or shutdown is requested. ok is
// false when the worker must exit; queued tasks are then left for Shutdown.
func (p *ThreadPool) dequeue() (qt queuedTask, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.IsEmpty() && !p.shutdownRequested {
		p.waiting++
		p.cond.Wait()
		p.waiting--
	}

	if p.shutdownRequested {
		return qt, false
	}

	qt, _ = p.queue.TryPop()
	p.running++
	return qt, true
}

func (p *ThreadPool) run(qt queuedTask) {
	ctx := context.Background()
	start := p.clock.Now()
	p.metricHandle.PoolTaskQueueWait(ctx, start.Sub(qt.enqueuedAt))
	p.metricHandle.PoolBusyWorkers(1)

	status := p.execute(qt.task)

	p.metricHandle.PoolTaskLatency(ctx, p.clock.Now().Sub(start), status)
	p.metricHandle.PoolBusyWorkers(-1)

	p.mu.Lock()
	p.running--
	p.outstanding--
	if status == metrics.TaskStatusCompletedAttr {
		p.completed++
	} else {
		p.failed++
	}
	if p.outstanding == 0 {
		p.cond.Broadcast()
	}
	p.mu.Unlock()

	p.metricHandle.PoolOutstandingTasks(-1)
	p.metricHandle.PoolTasksFinishedCount(1, status)
}

// execute runs and releases task. A panic in either is logged and the task
// still counts as finished.
func (p *ThreadPool) execute(task Task) (status metrics.TaskStatus) {
	status = metrics.TaskStatusCompletedAttr
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("ThreadPool %s (%s): task %s panicked: %v\n%s", p.name, p.id, taskName(task), r, debug.Stack())
			status = metrics.TaskStatusPanickedAttr
		}
	}()
	defer release(task)

	task.Execute()
	return
}

func (p *ThreadPool) releaseDiscarded(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("ThreadPool %s (%s): releasing discarded task %s panicked: %v", p.name, p.id, taskName(task), r)
		}
	}()
	release(task)
}

var _ WorkerPool = (*ThreadPool)(nil)
