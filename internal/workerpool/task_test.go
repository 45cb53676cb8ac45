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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTask_ExecuteThenRelease(t *testing.T) {
	var got []string
	arg := "node-7"
	task := NewTask(
		func(a string) { got = append(got, "run "+a) },
		arg,
		func(a string) { got = append(got, "destroy "+a) },
	)

	task.Execute()
	task.Release()

	assert.Equal(t, []string{"run node-7", "destroy node-7"}, got)
	assert.Nil(t, task.action)
	assert.Nil(t, task.destroy)
	assert.Empty(t, task.arg)
}

func TestNewTask_NilDestroy(t *testing.T) {
	ran := false
	task := NewTask(func(int) { ran = true }, 1, nil)

	task.Execute()

	assert.True(t, ran)
	assert.NotPanics(t, task.Release)
}

func TestNewTask_NilActionPanics(t *testing.T) {
	assert.Panics(t, func() { NewTask[int](nil, 0, nil) })
}

func TestTaskFunc(t *testing.T) {
	calls := 0
	var task Task = TaskFunc(func() { calls++ })

	task.Execute()
	release(task)

	assert.Equal(t, 1, calls)
}

func TestNamedTask(t *testing.T) {
	destroyed := 0
	inner := NewTask(func(int) {}, 0, func(int) { destroyed++ })

	task := NamedTask("visit-3", inner)
	task.Execute()
	release(task)

	assert.Equal(t, "visit-3", taskName(task))
	assert.Equal(t, 1, destroyed)
}

func TestTaskName_Unnamed(t *testing.T) {
	assert.Equal(t, "workerpool.TaskFunc", taskName(TaskFunc(func() {})))
}
