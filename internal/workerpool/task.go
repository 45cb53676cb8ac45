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
	"fmt"
)

// Task is a unit of work run by a worker exactly once.
type Task interface {
	Execute()
}

// Releaser is implemented by tasks that own resources. The pool calls Release
// exactly once per accepted task: after Execute returns, or instead of Execute
// when the task is discarded by shutdown.
type Releaser interface {
	Release()
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func()

func (f TaskFunc) Execute() {
	f()
}

// ArgTask runs an action over an argument it owns, and optionally destroys
// the argument once the task is done with it.
type ArgTask[A any] struct {
	action  func(A)
	arg     A
	destroy func(A)
}

// NewTask returns a task that calls action(arg) when executed and
// destroy(arg) when released. destroy may be nil.
func NewTask[A any](action func(A), arg A, destroy func(A)) *ArgTask[A] {
	if action == nil {
		panic("workerpool: NewTask called with a nil action")
	}
	return &ArgTask[A]{
		action:  action,
		arg:     arg,
		destroy: destroy,
	}
}

func (t *ArgTask[A]) Execute() {
	t.action(t.arg)
}

// Release runs the destructor and drops every reference held by the task.
// The task must not be used afterwards.
func (t *ArgTask[A]) Release() {
	if t.destroy != nil {
		t.destroy(t.arg)
	}
	var zero A
	t.action, t.arg, t.destroy = nil, zero, nil
}

type namedTask struct {
	Task
	name string
}

// NamedTask attaches a name to task. The name shows up in pool logs.
func NamedTask(name string, task Task) Task {
	return &namedTask{Task: task, name: name}
}

func (n *namedTask) Name() string {
	return n.name
}

func (n *namedTask) Release() {
	release(n.Task)
}

func release(task Task) {
	if r, ok := task.(Releaser); ok {
		r.Release()
	}
}

func taskName(task Task) string {
	if n, ok := task.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", task)
}
