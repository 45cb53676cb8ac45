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
	"strings"
)

func resolveWorkers(c *Config) {
	if c.Workers == 0 {
		c.Workers = int64(runtime.NumCPU())
	}
}

func resolveLoggingConfig(c *Config) {
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	// Mutex hold reports are logged at TRACE.
	if c.Debug.LogMutex {
		c.Logging.Severity = TraceLogSeverity
	}
}

func resolveTracingMode(c *Config) {
	c.Monitoring.ExperimentalTracingMode = strings.ToLower(strings.TrimSpace(c.Monitoring.ExperimentalTracingMode))
}

// Rationalize updates the config fields based on the values of other fields.
func Rationalize(c *Config) error {
	resolveWorkers(c)
	resolveLoggingConfig(c)
	resolveTracingMode(c)
	if c.GcsConnection.CustomEndpoint != "" {
		u, err := decodeURL(c.GcsConnection.CustomEndpoint)
		if err != nil {
			return err
		}
		c.GcsConnection.CustomEndpoint = u
	}
	return nil
}
