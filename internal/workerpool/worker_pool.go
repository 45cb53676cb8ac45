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
)

// Enqueuer accepts tasks for asynchronous execution. Tasks may enqueue
// further tasks from their Execute method.
type Enqueuer interface {
	Enqueue(task Task)
}

// WorkerPool runs enqueued tasks on a fixed set of workers and detects when
// no work is left anywhere in the pool.
type WorkerPool interface {
	Enqueuer

	// WaitForCompletion blocks until every task enqueued so far, and every
	// task those tasks enqueued, has finished.
	WaitForCompletion()

	// WaitForCompletionContext is WaitForCompletion that gives up with
	// ctx.Err() once ctx is done.
	WaitForCompletionContext(ctx context.Context) error

	// Shutdown stops the workers and releases queued tasks without running
	// them. It must not be called from inside a task.
	Shutdown()
}
