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

package cfg

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRationalize_ZeroWorkersMeansOnePerCPU(t *testing.T) {
	c := validConfig()
	c.Workers = 0

	require.NoError(t, Rationalize(c))

	assert.EqualValues(t, runtime.NumCPU(), c.Workers)
}

func TestRationalize_KeepsExplicitWorkers(t *testing.T) {
	c := validConfig()
	c.Workers = 7

	require.NoError(t, Rationalize(c))

	assert.EqualValues(t, 7, c.Workers)
}

func TestRationalize_NegativeWorkersLeftForValidation(t *testing.T) {
	c := validConfig()
	c.Workers = -2

	require.NoError(t, Rationalize(c))

	assert.Error(t, ValidateConfig(c))
}

func TestRationalize_LogMutexRaisesSeverityToTrace(t *testing.T) {
	c := validConfig()
	c.Debug.LogMutex = true
	c.Logging.Format = "JSON"

	require.NoError(t, Rationalize(c))

	assert.Equal(t, TraceLogSeverity, c.Logging.Severity)
	assert.Equal(t, JSONLogFormat, c.Logging.Format)
}

func TestRationalize_NormalizesTracingMode(t *testing.T) {
	c := validConfig()
	c.Monitoring.ExperimentalTracingMode = " GCPTrace "

	require.NoError(t, Rationalize(c))

	assert.Equal(t, GCPTraceTracingMode, c.Monitoring.ExperimentalTracingMode)
}

func TestRationalize_InvalidEndpoint(t *testing.T) {
	c := validConfig()
	c.GcsConnection.CustomEndpoint = "http://[::1"

	assert.Error(t, Rationalize(c))
}
