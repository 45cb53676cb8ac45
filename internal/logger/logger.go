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

// Package logger is the process-wide severity logger. Output goes to stderr
// until InitLogFile routes it to a rotated log file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/googlecloudplatform/graphwalk/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Custom severities on top of the slog defaults.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelOff   = slog.Level(12)
)

var (
	defaultLoggerFactory *loggerFactory
	defaultLogger        *slog.Logger
	mu                   sync.Mutex
)

type loggerFactory struct {
	// If nil, log to stderr. Otherwise, log to this rotated file.
	file            *lumberjack.Logger
	format          string
	level           cfg.LogSeverity
	logRotateConfig cfg.LogRotateLoggingConfig
}

func init() {
	defaultLoggerFactory = &loggerFactory{
		format:          "text",
		level:           cfg.InfoLogSeverity,
		logRotateConfig: cfg.DefaultLogRotateConfig(),
	}
	defaultLogger = defaultLoggerFactory.newLogger()
}

// InitLogFile routes logs to the file named in newLogConfig, rotating it per
// the log-rotate settings. An empty file path keeps logging on stderr but still
// applies the format and severity.
func InitLogFile(newLogConfig cfg.LoggingConfig) error {
	mu.Lock()
	defer mu.Unlock()

	f := &loggerFactory{
		format:          newLogConfig.Format,
		level:           newLogConfig.Severity,
		logRotateConfig: newLogConfig.LogRotate,
	}
	if newLogConfig.FilePath != "" {
		// Open the path eagerly; lumberjack would only fail on first write.
		file, err := os.OpenFile(string(newLogConfig.FilePath), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("error while opening log file: %w", err)
		}
		file.Close()

		f.file = &lumberjack.Logger{
			Filename:   string(newLogConfig.FilePath),
			MaxSize:    int(newLogConfig.LogRotate.MaxFileSizeMb),
			MaxBackups: int(newLogConfig.LogRotate.BackupFileCount),
			Compress:   newLogConfig.LogRotate.Compress,
		}
	}

	old := defaultLoggerFactory
	defaultLoggerFactory = f
	defaultLogger = f.newLogger()
	if old.file != nil {
		return old.file.Close()
	}
	return nil
}

// Close closes the log file when necessary and falls back to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	f := defaultLoggerFactory
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	defaultLoggerFactory = &loggerFactory{format: f.format, level: f.level, logRotateConfig: f.logRotateConfig}
	defaultLogger = defaultLoggerFactory.newLogger()
	return err
}

// SetLogFormat updates the format of the default logger. Any format other
// than "text" falls back to json.
func SetLogFormat(format string) {
	mu.Lock()
	defer mu.Unlock()

	defaultLoggerFactory.format = format
	defaultLogger = defaultLoggerFactory.newLogger()
}

// SetLogLevel updates the severity threshold of the default logger.
func SetLogLevel(level cfg.LogSeverity) {
	mu.Lock()
	defer mu.Unlock()

	defaultLoggerFactory.level = level
	defaultLogger = defaultLoggerFactory.newLogger()
}

func (f *loggerFactory) writer() io.Writer {
	if f.file != nil {
		return f.file
	}
	return os.Stderr
}

func (f *loggerFactory) newLogger() *slog.Logger {
	programLevel := new(slog.LevelVar)
	setLoggingLevel(string(f.level), programLevel)
	return slog.New(f.createJsonOrTextHandler(f.writer(), programLevel, ""))
}

func logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger
}

// Tracef prints the message with TRACE severity in the specified format.
func Tracef(format string, v ...any) {
	logger().Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
}

// Debugf prints the message with DEBUG severity in the specified format.
func Debugf(format string, v ...any) {
	logger().Debug(fmt.Sprintf(format, v...))
}

// Infof prints the message with INFO severity in the specified format.
func Infof(format string, v ...any) {
	logger().Info(fmt.Sprintf(format, v...))
}

// Warnf prints the message with WARNING severity in the specified format.
func Warnf(format string, v ...any) {
	logger().Warn(fmt.Sprintf(format, v...))
}

// Errorf prints the message with ERROR severity in the specified format.
func Errorf(format string, v ...any) {
	logger().Error(fmt.Sprintf(format, v...))
}

// Info prints the message with INFO severity and the given key-value pairs.
func Info(message string, args ...any) {
	logger().Info(message, args...)
}

// Warn prints the message with WARNING severity and the given key-value pairs.
func Warn(message string, args ...any) {
	logger().Warn(message, args...)
}

// Error prints the message with ERROR severity and the given key-value pairs.
func Error(message string, args ...any) {
	logger().Error(message, args...)
}
