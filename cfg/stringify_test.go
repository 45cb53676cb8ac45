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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStringify(t *testing.T) {
	c := validConfig()
	c.Timeout = 90 * time.Second
	c.Monitoring.ExperimentalTracingMode = StdoutTracingMode

	s, err := Stringify(c)

	require.NoError(t, err)
	assert.Contains(t, s, "workers: 4")
	assert.Contains(t, s, "timeout: 1m30s")
	assert.Contains(t, s, "severity: INFO")
	assert.Contains(t, s, "experimental-tracing-mode: stdout")
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(s), &raw))
	assert.Contains(t, raw, "gcs-connection")
}
