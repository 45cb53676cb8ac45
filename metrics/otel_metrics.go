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

package metrics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/googlecloudplatform/graphwalk/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	taskStatusKey = attribute.Key("task_status")

	latencyBucketsUs = []float64{50, 100, 200, 400, 800, 1200, 2000, 5000, 10000, 20000, 50000, 100000, 200000, 500000, 1000000, 2000000, 5000000, 10000000, 50000000, 100000000}

	taskStatusCompletedAttrSet = metric.WithAttributeSet(attribute.NewSet(taskStatusKey.String(string(TaskStatusCompletedAttr))))
	taskStatusPanickedAttrSet  = metric.WithAttributeSet(attribute.NewSet(taskStatusKey.String(string(TaskStatusPanickedAttr))))
	taskStatusDiscardedAttrSet = metric.WithAttributeSet(attribute.NewSet(taskStatusKey.String(string(TaskStatusDiscardedAttr))))
)

type histogramRecord struct {
	ctx        context.Context
	instrument metric.Int64Histogram
	value      int64
	attributes metric.RecordOption
}

// otelMetrics records pool metrics through the global OTel meter provider.
// Counters are accumulated in atomics and observed on collection; histogram
// samples are handed to a few recorder goroutines so workers never block on
// the SDK.
type otelMetrics struct {
	ch chan histogramRecord
	wg *sync.WaitGroup

	tasksEnqueuedAtomic          *atomic.Int64
	tasksFinishedCompletedAtomic *atomic.Int64
	tasksFinishedPanickedAtomic  *atomic.Int64
	tasksFinishedDiscardedAtomic *atomic.Int64
	outstandingTasksAtomic       *atomic.Int64
	busyWorkersAtomic            *atomic.Int64

	taskLatency   metric.Int64Histogram
	taskQueueWait metric.Int64Histogram
}

func (o *otelMetrics) PoolTasksEnqueuedCount(inc int64) {
	if inc < 0 {
		logger.Errorf("Counter metric pool/tasks_enqueued_count received a negative increment: %d", inc)
		return
	}
	o.tasksEnqueuedAtomic.Add(inc)
}

func (o *otelMetrics) PoolTasksFinishedCount(inc int64, status TaskStatus) {
	if inc < 0 {
		logger.Errorf("Counter metric pool/tasks_finished_count received a negative increment: %d", inc)
		return
	}
	switch status {
	case TaskStatusCompletedAttr:
		o.tasksFinishedCompletedAtomic.Add(inc)
	case TaskStatusPanickedAttr:
		o.tasksFinishedPanickedAtomic.Add(inc)
	case TaskStatusDiscardedAttr:
		o.tasksFinishedDiscardedAtomic.Add(inc)
	default:
		logger.Errorf("Counter metric pool/tasks_finished_count received an unrecognized task_status: %q", status)
	}
}

func (o *otelMetrics) PoolTaskLatency(ctx context.Context, latency time.Duration, status TaskStatus) {
	var attrs metric.RecordOption
	switch status {
	case TaskStatusCompletedAttr:
		attrs = taskStatusCompletedAttrSet
	case TaskStatusPanickedAttr:
		attrs = taskStatusPanickedAttrSet
	case TaskStatusDiscardedAttr:
		attrs = taskStatusDiscardedAttrSet
	default:
		logger.Errorf("Histogram metric pool/task_latency received an unrecognized task_status: %q", status)
		return
	}
	o.record(histogramRecord{ctx: ctx, instrument: o.taskLatency, value: latency.Microseconds(), attributes: attrs})
}

func (o *otelMetrics) PoolTaskQueueWait(ctx context.Context, latency time.Duration) {
	o.record(histogramRecord{ctx: ctx, instrument: o.taskQueueWait, value: latency.Microseconds()})
}

func (o *otelMetrics) PoolOutstandingTasks(inc int64) {
	o.outstandingTasksAtomic.Add(inc)
}

func (o *otelMetrics) PoolBusyWorkers(inc int64) {
	o.busyWorkersAtomic.Add(inc)
}

func (o *otelMetrics) record(r histogramRecord) {
	select {
	case o.ch <- r: // Do nothing
	default: // Unblock writes to channel if it's full.
	}
}

// Close stops the recorder goroutines after draining pending samples. The
// handle must not be used afterwards.
func (o *otelMetrics) Close() {
	close(o.ch)
	o.wg.Wait()
}

// NewOTelMetrics creates the pool instruments on the global meter provider and
// starts workers goroutines recording histogram samples from a buffer of
// bufferSize entries.
func NewOTelMetrics(ctx context.Context, workers int, bufferSize int) (*otelMetrics, error) {
	ch := make(chan histogramRecord, bufferSize)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range ch {
				if record.attributes != nil {
					record.instrument.Record(record.ctx, record.value, record.attributes)
				} else {
					record.instrument.Record(record.ctx, record.value)
				}
			}
		}()
	}

	meter := otel.Meter("graphwalk")
	var tasksEnqueuedAtomic,
		tasksFinishedCompletedAtomic,
		tasksFinishedPanickedAtomic,
		tasksFinishedDiscardedAtomic,
		outstandingTasksAtomic,
		busyWorkersAtomic atomic.Int64

	_, err0 := meter.Int64ObservableCounter("pool/tasks_enqueued_count",
		metric.WithDescription("The cumulative number of tasks accepted by the pool."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			conditionallyObserve(obsrv, &tasksEnqueuedAtomic)
			return nil
		}))

	_, err1 := meter.Int64ObservableCounter("pool/tasks_finished_count",
		metric.WithDescription("The cumulative number of tasks that left the pool, by how they left it."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			conditionallyObserve(obsrv, &tasksFinishedCompletedAtomic, taskStatusCompletedAttrSet)
			conditionallyObserve(obsrv, &tasksFinishedPanickedAtomic, taskStatusPanickedAttrSet)
			conditionallyObserve(obsrv, &tasksFinishedDiscardedAtomic, taskStatusDiscardedAttrSet)
			return nil
		}))

	_, err2 := meter.Int64ObservableUpDownCounter("pool/outstanding_tasks",
		metric.WithDescription("The number of tasks enqueued but not yet finished."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			observeUpDownCounter(obsrv, &outstandingTasksAtomic)
			return nil
		}))

	_, err3 := meter.Int64ObservableUpDownCounter("pool/busy_workers",
		metric.WithDescription("The number of workers currently running a task."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			observeUpDownCounter(obsrv, &busyWorkersAtomic)
			return nil
		}))

	taskLatency, err4 := meter.Int64Histogram("pool/task_latency",
		metric.WithDescription("The time a worker spent running and releasing a task."),
		metric.WithUnit("us"),
		metric.WithExplicitBucketBoundaries(latencyBucketsUs...))

	taskQueueWait, err5 := meter.Int64Histogram("pool/task_queue_wait",
		metric.WithDescription("The time a task spent queued before a worker picked it up."),
		metric.WithUnit("us"),
		metric.WithExplicitBucketBoundaries(latencyBucketsUs...))

	errs := []error{err0, err1, err2, err3, err4, err5}
	if err := errors.Join(errs...); err != nil {
		close(ch)
		wg.Wait()
		return nil, err
	}

	return &otelMetrics{
		ch:                           ch,
		wg:                           &wg,
		tasksEnqueuedAtomic:          &tasksEnqueuedAtomic,
		tasksFinishedCompletedAtomic: &tasksFinishedCompletedAtomic,
		tasksFinishedPanickedAtomic:  &tasksFinishedPanickedAtomic,
		tasksFinishedDiscardedAtomic: &tasksFinishedDiscardedAtomic,
		outstandingTasksAtomic:       &outstandingTasksAtomic,
		busyWorkersAtomic:            &busyWorkersAtomic,
		taskLatency:                  taskLatency,
		taskQueueWait:                taskQueueWait,
	}, nil
}

func conditionallyObserve(obsrv metric.Int64Observer, counter *atomic.Int64, obsrvOptions ...metric.ObserveOption) {
	if val := counter.Load(); val > 0 {
		obsrv.Observe(val, obsrvOptions...)
	}
}

func observeUpDownCounter(obsrv metric.Int64Observer, counter *atomic.Int64, obsrvOptions ...metric.ObserveOption) {
	obsrv.Observe(counter.Load(), obsrvOptions...)
}
