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

package metrics

import (
	"context"
	"time"
)

// TaskStatus is the value of the task_status attribute: how a task left the
// pool.
type TaskStatus string

const (
	TaskStatusCompletedAttr TaskStatus = "completed"
	TaskStatusPanickedAttr  TaskStatus = "panicked"
	TaskStatusDiscardedAttr TaskStatus = "discarded"
)

// MetricHandle records the worker pool metrics.
type MetricHandle interface {
	// PoolTasksEnqueuedCount - The cumulative number of tasks accepted by the pool.
	PoolTasksEnqueuedCount(inc int64)

	// PoolTasksFinishedCount - The cumulative number of tasks that left the pool, by how they left it.
	PoolTasksFinishedCount(inc int64, status TaskStatus)

	// PoolTaskLatency - The time a worker spent running and releasing a task.
	PoolTaskLatency(ctx context.Context, latency time.Duration, status TaskStatus)

	// PoolTaskQueueWait - The time a task spent queued before a worker picked it up.
	PoolTaskQueueWait(ctx context.Context, latency time.Duration)

	// PoolOutstandingTasks - The number of tasks enqueued but not yet finished.
	PoolOutstandingTasks(inc int64)

	// PoolBusyWorkers - The number of workers currently running a task.
	PoolBusyWorkers(inc int64)
}
