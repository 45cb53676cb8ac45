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
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Debug DebugConfig `yaml:"debug"`

	GcsConnection GcsConnectionConfig `yaml:"gcs-connection"`

	Logging LoggingConfig `yaml:"logging"`

	Metrics MetricsConfig `yaml:"metrics"`

	Monitoring MonitoringConfig `yaml:"monitoring"`

	StartNode int64 `yaml:"start-node"`

	Timeout time.Duration `yaml:"timeout"`

	Workers int64 `yaml:"workers"`
}

type DebugConfig struct {
	ExitOnInvariantViolation bool `yaml:"exit-on-invariant-violation"`

	LogMutex bool `yaml:"log-mutex"`
}

type GcsConnectionConfig struct {
	AnonymousAccess bool `yaml:"anonymous-access"`

	BillingProject string `yaml:"billing-project"`

	CustomEndpoint string `yaml:"custom-endpoint"`

	MaxRetrySleep time.Duration `yaml:"max-retry-sleep"`

	RetryMultiplier float64 `yaml:"retry-multiplier"`
}

type LogRotateLoggingConfig struct {
	BackupFileCount int64 `yaml:"backup-file-count"`

	Compress bool `yaml:"compress"`

	MaxFileSizeMb int64 `yaml:"max-file-size-mb"`
}

type LoggingConfig struct {
	FilePath ResolvedPath `yaml:"file-path"`

	Format string `yaml:"format"`

	LogRotate LogRotateLoggingConfig `yaml:"log-rotate"`

	Severity LogSeverity `yaml:"severity"`
}

type MetricsConfig struct {
	CloudMetricsExportIntervalSecs int64 `yaml:"cloud-metrics-export-interval-secs"`

	PrometheusPort int64 `yaml:"prometheus-port"`
}

type MonitoringConfig struct {
	ExperimentalTracingMode string `yaml:"experimental-tracing-mode"`

	ExperimentalTracingProjectId string `yaml:"experimental-tracing-project-id"`

	ExperimentalTracingSamplingRatio float64 `yaml:"experimental-tracing-sampling-ratio"`
}

// BindFlags declares every flag on flagSet and binds it to its config key in
// v, so that values from the command line override the config file.
func BindFlags(v *viper.Viper, flagSet *pflag.FlagSet) error {
	var err error

	flagSet.BoolP("anonymous-access", "", false, "Authentication is enabled by default. This flag disables authentication for gs:// inputs.")

	err = v.BindPFlag("gcs-connection.anonymous-access", flagSet.Lookup("anonymous-access"))
	if err != nil {
		return err
	}

	flagSet.StringP("billing-project", "", "", "Project to use for billing when reading gs:// inputs from Requester Pays buckets.")

	err = v.BindPFlag("gcs-connection.billing-project", flagSet.Lookup("billing-project"))
	if err != nil {
		return err
	}

	flagSet.IntP("cloud-metrics-export-interval-secs", "", 0, "Specifies the interval at which the metrics are uploaded to cloud monitoring. 0 disables the export.")

	err = v.BindPFlag("metrics.cloud-metrics-export-interval-secs", flagSet.Lookup("cloud-metrics-export-interval-secs"))
	if err != nil {
		return err
	}

	flagSet.StringP("custom-endpoint", "", "", "Specifies an alternative GCS endpoint for gs:// inputs, for example a local emulator.")

	err = v.BindPFlag("gcs-connection.custom-endpoint", flagSet.Lookup("custom-endpoint"))
	if err != nil {
		return err
	}

	flagSet.BoolP("debug_invariants", "", false, "Exit when internal invariants are violated.")

	err = v.BindPFlag("debug.exit-on-invariant-violation", flagSet.Lookup("debug_invariants"))
	if err != nil {
		return err
	}

	flagSet.BoolP("debug_mutex", "", false, "Print debug messages when a mutex is held too long.")

	err = v.BindPFlag("debug.log-mutex", flagSet.Lookup("debug_mutex"))
	if err != nil {
		return err
	}

	flagSet.StringP("experimental-tracing-mode", "", "", "Experimental: specify tracing mode. Value can be 'stdout' (written to stderr) or 'gcptrace'.")

	err = v.BindPFlag("monitoring.experimental-tracing-mode", flagSet.Lookup("experimental-tracing-mode"))
	if err != nil {
		return err
	}

	flagSet.StringP("experimental-tracing-project-id", "", "", "Experimental: project to export traces to when the tracing mode is gcptrace.")

	err = v.BindPFlag("monitoring.experimental-tracing-project-id", flagSet.Lookup("experimental-tracing-project-id"))
	if err != nil {
		return err
	}

	flagSet.Float64P("experimental-tracing-sampling-ratio", "", 0, "Experimental: fraction of traces to sample, between 0 and 1.")

	err = v.BindPFlag("monitoring.experimental-tracing-sampling-ratio", flagSet.Lookup("experimental-tracing-sampling-ratio"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "The file for storing logs that can be parsed by fluentd. When not provided, logs are written to stderr.")

	err = v.BindPFlag("logging.file-path", flagSet.Lookup("log-file"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "The format of the log file: 'text' or 'json'.")

	err = v.BindPFlag("logging.format", flagSet.Lookup("log-format"))
	if err != nil {
		return err
	}

	flagSet.IntP("log-rotate-backup-file-count", "", DefaultBackupFileCount, "The maximum number of backup log files to retain after they have been rotated. 0 retains all of them.")

	err = v.BindPFlag("logging.log-rotate.backup-file-count", flagSet.Lookup("log-rotate-backup-file-count"))
	if err != nil {
		return err
	}

	flagSet.BoolP("log-rotate-compress", "", true, "Whether rotated log files are compressed using gzip.")

	err = v.BindPFlag("logging.log-rotate.compress", flagSet.Lookup("log-rotate-compress"))
	if err != nil {
		return err
	}

	flagSet.IntP("log-rotate-max-file-size-mb", "", DefaultMaxFileSizeMb, "The maximum size in megabytes that a log file can reach before it is rotated.")

	err = v.BindPFlag("logging.log-rotate.max-file-size-mb", flagSet.Lookup("log-rotate-max-file-size-mb"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", "INFO", "Specifies the logging severity expressed as one of [TRACE, DEBUG, INFO, WARNING, ERROR, OFF]")

	err = v.BindPFlag("logging.severity", flagSet.Lookup("log-severity"))
	if err != nil {
		return err
	}

	flagSet.DurationP("max-retry-sleep", "", 30*time.Second, "The maximum duration allowed to sleep in a retry loop with exponential backoff for failed requests to GCS.")

	err = v.BindPFlag("gcs-connection.max-retry-sleep", flagSet.Lookup("max-retry-sleep"))
	if err != nil {
		return err
	}

	flagSet.IntP("prometheus-port", "", 0, "Expose Prometheus metrics endpoint on this port and a path of /metrics. 0 disables it.")

	err = v.BindPFlag("metrics.prometheus-port", flagSet.Lookup("prometheus-port"))
	if err != nil {
		return err
	}

	flagSet.Float64P("retry-multiplier", "", 2, "Param for exponential backoff algorithm, which is used to increase waiting time b/w two consecutive retries.")

	err = v.BindPFlag("gcs-connection.retry-multiplier", flagSet.Lookup("retry-multiplier"))
	if err != nil {
		return err
	}

	flagSet.IntP("start-node", "s", 0, "Index of the node the traversal starts from.")

	err = v.BindPFlag("start-node", flagSet.Lookup("start-node"))
	if err != nil {
		return err
	}

	flagSet.DurationP("timeout", "", 0, "Abort the traversal and shut the pool down if it has not finished within this duration. 0 means no limit.")

	err = v.BindPFlag("timeout", flagSet.Lookup("timeout"))
	if err != nil {
		return err
	}

	flagSet.IntP("workers", "w", DefaultWorkers, "Number of workers in the pool. 0 starts one worker per CPU.")

	err = v.BindPFlag("workers", flagSet.Lookup("workers"))
	if err != nil {
		return err
	}

	return nil
}
