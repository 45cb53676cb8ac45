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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/googlecloudplatform/graphwalk/cfg"
	"github.com/googlecloudplatform/graphwalk/common"
	"github.com/googlecloudplatform/graphwalk/internal/graph"
	"github.com/googlecloudplatform/graphwalk/internal/locker"
	"github.com/googlecloudplatform/graphwalk/internal/logger"
	"github.com/googlecloudplatform/graphwalk/internal/monitor"
	"github.com/googlecloudplatform/graphwalk/internal/storage"
	"github.com/googlecloudplatform/graphwalk/internal/storage/storageutil"
	"github.com/googlecloudplatform/graphwalk/internal/workerpool"
	"github.com/googlecloudplatform/graphwalk/metrics"
	"github.com/googlecloudplatform/graphwalk/tracing"
	"golang.org/x/sync/errgroup"
)

const (
	telemetryShutdownTimeout = 10 * time.Second
	progressInterval         = time.Second

	// Pending histogram samples; extra samples are dropped when full.
	metricsBufferSize    = 1024
	metricsRecorderCount = 2
)

// runWalk is the production entry point: it stops early on SIGINT or SIGTERM.
func runWalk(c *cfg.Config, input string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return walk(ctx, c, input, out)
}

// walk loads the graph named by input, sums the infos reachable from
// c.StartNode on a pool of c.Workers workers, and writes the sum to out
// without a trailing newline. The traversal is abandoned, and its queued
// tasks discarded, when ctx ends or c.Timeout elapses.
func walk(ctx context.Context, c *cfg.Config, input string, out io.Writer) (err error) {
	if err = logger.InitLogFile(c.Logging); err != nil {
		return fmt.Errorf("init log file: %w", err)
	}
	defer func() {
		if err != nil {
			logger.Errorf("graphwalk %s failed: %v", input, err)
		}
		_ = logger.Close()
	}()

	if c.Debug.ExitOnInvariantViolation {
		locker.EnableInvariantsCheck()
	}
	if c.Debug.LogMutex {
		locker.EnableDebugMessages()
	}

	runID := uuid.NewString()
	if s, stringifyErr := cfg.Stringify(c); stringifyErr == nil {
		logger.Debugf("graphwalk %s, run %s, config:\n%s", common.GetVersion(), runID, s)
	}

	metricHandle, traceHandle, shutdownTelemetry := setupTelemetry(ctx, c, runID)
	defer shutdownTelemetry()

	ctx, span := traceHandle.StartServerSpan(ctx, "graphwalk")
	defer traceHandle.EndSpan(span)
	defer func() { traceHandle.RecordError(span, err) }()

	g, err := loadGraph(ctx, c, input, traceHandle)
	if err != nil {
		return err
	}
	if c.StartNode >= int64(len(g.Nodes)) {
		return fmt.Errorf("start node %d out of range: graph has %d nodes", c.StartNode, len(g.Nodes))
	}

	pool, err := workerpool.NewThreadPool(uint32(c.Workers),
		workerpool.WithName("graphwalk"),
		workerpool.WithMetricHandle(metricHandle))
	if err != nil {
		return fmt.Errorf("creating thread pool: %w", err)
	}
	// Shutdown is idempotent; on the error paths this discards queued tasks.
	defer pool.Shutdown()

	sum, err := traverse(ctx, c, pool, g, traceHandle)
	if err != nil {
		return err
	}
	pool.Shutdown()

	stats := pool.Stats()
	logger.Info("Traversal finished",
		"input", input,
		"sum", sum,
		"nodes", len(g.Nodes),
		"tasks", stats.Completed,
		"failed", stats.Failed)

	if _, err = fmt.Fprint(out, sum); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// setupTelemetry wires the exporters enabled in c. The returned handles are
// no-ops for the disabled ones.
func setupTelemetry(ctx context.Context, c *cfg.Config, runID string) (metrics.MetricHandle, tracing.TraceHandle, func()) {
	var metricHandle metrics.MetricHandle = metrics.NewNoopMetrics()
	traceHandle := tracing.NewNoopTracer()
	var closeMetrics func()

	metricsShutdown := monitor.SetupOTelMetricExporters(ctx, c, runID)
	if metricsShutdown != nil {
		otelMetrics, err := metrics.NewOTelMetrics(ctx, metricsRecorderCount, metricsBufferSize)
		if err != nil {
			logger.Errorf("Failed to create pool metrics, continuing without them: %v", err)
		} else {
			metricHandle = otelMetrics
			closeMetrics = otelMetrics.Close
		}
	}

	traceShutdown := monitor.SetupTracing(ctx, c, runID)
	if traceShutdown != nil {
		traceHandle = tracing.NewOTelTracer()
	}

	shutdownFn := common.JoinShutdownFunc(metricsShutdown, traceShutdown)
	return metricHandle, traceHandle, func() {
		if closeMetrics != nil {
			closeMetrics()
		}
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := shutdownFn(ctx); err != nil {
			logger.Errorf("Error while shutting down telemetry: %v", err)
		}
	}
}

func loadGraph(ctx context.Context, c *cfg.Config, input string, traceHandle tracing.TraceHandle) (g *graph.Graph, err error) {
	ctx, span := traceHandle.StartSpan(ctx, "LoadGraph")
	defer traceHandle.EndSpan(span)
	defer func() { traceHandle.RecordError(span, err) }()

	var objects graph.ObjectOpener
	if storageutil.IsGCSURI(input) {
		sh, err := storage.NewStorageHandle(ctx, storage.StorageClientConfigFromConfig(&c.GcsConnection))
		if err != nil {
			return nil, err
		}
		defer sh.Close()
		objects = sh
	}

	start := time.Now()
	g, err = graph.Load(ctx, input, objects)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %s: %d nodes, %d edges in %v", input, len(g.Nodes), g.EdgeCount(), time.Since(start))
	return g, nil
}

// traverse runs the traversal and a progress logger side by side. When the
// traversal stops early the pool is shut down, discarding the queued tasks.
func traverse(ctx context.Context, c *cfg.Config, pool *workerpool.ThreadPool, g *graph.Graph, traceHandle tracing.TraceHandle) (sum int64, err error) {
	ctx, span := traceHandle.StartSpan(ctx, "Traverse")
	defer traceHandle.EndSpan(span)
	defer func() { traceHandle.RecordError(span, err) }()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	done := make(chan struct{})
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(done)
		var walkErr error
		sum, walkErr = graph.SumReachable(groupCtx, pool, g, uint32(c.StartNode))
		return walkErr
	})
	group.Go(func() error {
		reportProgress(groupCtx, pool, done)
		return nil
	})

	if err = group.Wait(); err != nil {
		pool.Shutdown()
		stats := pool.Stats()
		return 0, fmt.Errorf("traversal stopped after %d tasks, %d discarded: %w", stats.Completed+stats.Failed, stats.Discarded, err)
	}
	return sum, nil
}

func reportProgress(ctx context.Context, pool *workerpool.ThreadPool, done <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pool.Stats()
			logger.Debugf("Traversal progress: %d tasks finished, %d queued, %d running", stats.Completed+stats.Failed, stats.Queued, stats.Running)
		}
	}
}
