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

const (
	// DefaultWorkers mirrors the fixed pool size of the classic traversal.
	DefaultWorkers = 4
	// MaxWorkers bounds the pool size a config may ask for.
	MaxWorkers = 1 << 16

	DefaultMaxFileSizeMb   = 512
	DefaultBackupFileCount = 10

	// Supported values of logging.format.
	TextLogFormat = "text"
	JSONLogFormat = "json"

	// Supported values of monitoring.experimental-tracing-mode.
	StdoutTracingMode   = "stdout"
	GCPTraceTracingMode = "gcptrace"

	maxPort = 65535
)

// DefaultLogRotateConfig returns the log-rotate settings used when none are
// configured.
func DefaultLogRotateConfig() LogRotateLoggingConfig {
	return LogRotateLoggingConfig{
		BackupFileCount: DefaultBackupFileCount,
		Compress:        true,
		MaxFileSizeMb:   DefaultMaxFileSizeMb,
	}
}
