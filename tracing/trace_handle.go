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

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceHandle records the spans of a graph walk. Callers hold a TraceHandle
// rather than a tracer so that tracing can be switched off with a no-op
// implementation.
type TraceHandle interface {
	// StartSpan starts an internal span named spanName as a child of any span
	// in ctx.
	StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span)

	// StartServerSpan starts a root span of kind server for a top-level
	// operation.
	StartServerSpan(ctx context.Context, spanName string) (context.Context, trace.Span)

	EndSpan(span trace.Span)

	// RecordError records err on span and marks the span as failed. nil errors
	// are ignored.
	RecordError(span trace.Span, err error)
}
