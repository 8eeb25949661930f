// Copyright 2025 ClipForge, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package worker runs the background half of the pipeline. The HTTP response
// goes out as soon as a job reaches Transcribing; the analysis work is handed
// to this pool and executed on a fixed set of goroutines off the request
// path.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// ErrQueueFull is returned by Submit when the task queue has no room. The
// caller decides whether to fail the job or retry.
var ErrQueueFull = errors.New("analysis queue is full")

// Task is one unit of background analysis work: the job id plus the transient
// state the synchronous stages already produced for it. Only the id crosses
// the goroutine boundary; the handler loads its own job copy from the store
// so the document handed back to the HTTP caller is never shared with a
// worker.
type Task struct {
	JobID    string
	Metadata *model.SourceMetadata
	Payload  *model.MediaPayload
}

// Handler processes a single task. Failures are the handler's to record on
// the job; the pool only schedules.
type Handler func(ctx context.Context, task Task)

// Pool is a fixed-size goroutine pool fed by a buffered task queue.
type Pool struct {
	tasks   chan Task
	handler Handler
	size    int
	wg      sync.WaitGroup
	once    sync.Once
}

// NewPool creates a pool with the given number of workers and queue depth.
func NewPool(size int, queueDepth int, handler Handler) *Pool {
	if size < 1 {
		size = 1
	}
	if queueDepth < 1 {
		queueDepth = size
	}
	return &Pool{
		tasks:   make(chan Task, queueDepth),
		handler: handler,
		size:    size,
	}
}

// Start launches the worker goroutines. Workers drain the queue until Stop
// closes it or the context is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-p.tasks:
					if !ok {
						return
					}
					p.handler(ctx, task)
				}
			}
		}()
	}
}

// Submit enqueues a task without blocking. A full queue returns ErrQueueFull.
func (p *Pool) Submit(task Task) error {
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight tasks to finish. Safe to
// call more than once.
func (p *Pool) Stop() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
	slog.Info("analysis worker pool stopped")
}
