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
	"fmt"
	"net/url"
	"slices"
)

func decodeURL(u string) (string, error) {
	decodedURL, err := url.Parse(u)
	if err != nil {
		return "", err
	}
	return decodedURL.String(), nil
}

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf("max-file-size-mb should be atleast 1")
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count should be 0 (to retain all backup files) or a positive value")
	}
	return nil
}

func isValidLoggingConfig(config *LoggingConfig) error {
	if !slices.Contains([]string{TextLogFormat, JSONLogFormat}, config.Format) {
		return fmt.Errorf("invalid log format: %q. Must be one of [text, json]", config.Format)
	}
	if config.Severity.Rank() < 0 {
		return fmt.Errorf("invalid log severity: %q", config.Severity)
	}
	return isValidLogRotateConfig(&config.LogRotate)
}

func isValidWorkerConfig(config *Config) error {
	if config.Workers < 1 {
		return fmt.Errorf("workers should be atleast 1, got %d", config.Workers)
	}
	if config.Workers > MaxWorkers {
		return fmt.Errorf("workers should be at most %d, got %d", MaxWorkers, config.Workers)
	}
	if config.StartNode < 0 {
		return fmt.Errorf("start-node can't be negative, got %d", config.StartNode)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative, got %v", config.Timeout)
	}
	return nil
}

func isValidMetricsConfig(config *MetricsConfig) error {
	if config.PrometheusPort < 0 || config.PrometheusPort > maxPort {
		return fmt.Errorf("prometheus-port should be between 0 and %d, got %d", maxPort, config.PrometheusPort)
	}
	if config.CloudMetricsExportIntervalSecs < 0 {
		return fmt.Errorf("cloud-metrics-export-interval-secs can't be negative")
	}
	return nil
}

func isValidMonitoringConfig(config *MonitoringConfig) error {
	if !slices.Contains([]string{"", StdoutTracingMode, GCPTraceTracingMode}, config.ExperimentalTracingMode) {
		return fmt.Errorf("unsupported tracing mode: %q", config.ExperimentalTracingMode)
	}
	if config.ExperimentalTracingSamplingRatio < 0 || config.ExperimentalTracingSamplingRatio > 1 {
		return fmt.Errorf("sampling ratio should be between 0 and 1, got %v", config.ExperimentalTracingSamplingRatio)
	}
	return nil
}

func isValidGcsConnectionConfig(config *GcsConnectionConfig) error {
	if _, err := decodeURL(config.CustomEndpoint); err != nil {
		return err
	}
	if config.RetryMultiplier < 1 {
		return fmt.Errorf("retry-multiplier should be atleast 1")
	}
	if config.MaxRetrySleep < 0 {
		return fmt.Errorf("max-retry-sleep can't be negative")
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is invalid.
func ValidateConfig(config *Config) error {
	var err error

	if err = isValidWorkerConfig(config); err != nil {
		return fmt.Errorf("error parsing worker config: %w", err)
	}

	if err = isValidLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("error parsing logging config: %w", err)
	}

	if err = isValidMetricsConfig(&config.Metrics); err != nil {
		return fmt.Errorf("error parsing metrics config: %w", err)
	}

	if err = isValidMonitoringConfig(&config.Monitoring); err != nil {
		return fmt.Errorf("error parsing monitoring config: %w", err)
	}

	if err = isValidGcsConnectionConfig(&config.GcsConnection); err != nil {
		return fmt.Errorf("error parsing gcs-connection config: %w", err)
	}

	return nil
}
