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

package logger

import (
	"io"
	"log/slog"
)

const textTimeLayout = "02/01/2006 15:04:05.000000"

var severityNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

func setLoggingLevel(level string, programLevel *slog.LevelVar) {
	// Records with severity >= the configured value are logged.
	switch level {
	case "TRACE":
		programLevel.Set(LevelTrace)
	case "DEBUG":
		programLevel.Set(LevelDebug)
	case "INFO":
		programLevel.Set(LevelInfo)
	case "WARNING":
		programLevel.Set(LevelWarn)
	case "ERROR":
		programLevel.Set(LevelError)
	case "OFF":
		programLevel.Set(LevelOff)
	}
}

func (f *loggerFactory) createJsonOrTextHandler(writer io.Writer, levelVar *slog.LevelVar, prefix string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceAttr(f.format, prefix),
	}
	if f.format == "text" {
		return slog.NewTextHandler(writer, opts)
	}
	return slog.NewJSONHandler(writer, opts)
}

// replaceAttr renames the built-in slog keys to the structured-logging names
// and renders the timestamp per format.
func replaceAttr(format, prefix string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.TimeKey:
			t := a.Value.Time()
			if format == "text" {
				return slog.String("time", t.Round(0).Format(textTimeLayout))
			}
			return slog.Group("timestamp",
				slog.Int64("seconds", t.Unix()),
				slog.Int64("nanos", int64(t.Nanosecond())))
		case slog.LevelKey:
			level, _ := a.Value.Any().(slog.Level)
			name, ok := severityNames[level]
			if !ok {
				name = level.String()
			}
			return slog.String("severity", name)
		case slog.MessageKey:
			return slog.String("message", prefix+a.Value.String())
		}
		return a
	}
}
