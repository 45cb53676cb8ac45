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

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinShutdownFunc_RunsEveryFunctionInOrder(t *testing.T) {
	var calls []string
	record := func(name string, err error) ShutdownFn {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}
	errMetrics := errors.New("metrics")
	errTraces := errors.New("traces")

	err := JoinShutdownFunc(
		record("metrics", errMetrics),
		nil,
		record("logs", nil),
		record("traces", errTraces),
	)(context.Background())

	assert.Equal(t, []string{"metrics", "logs", "traces"}, calls)
	assert.ErrorIs(t, err, errMetrics)
	assert.ErrorIs(t, err, errTraces)
}

func TestJoinShutdownFunc_NoErrors(t *testing.T) {
	fn := JoinShutdownFunc(func(context.Context) error { return nil }, nil)

	assert.NoError(t, fn(context.Background()))
	assert.NoError(t, JoinShutdownFunc()(context.Background()))
}
