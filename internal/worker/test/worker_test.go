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

package worker_test

import (
	"context"
	"sync"
	"testing"

	"github.com/clipforge/social-ingest/internal/worker"
	"github.com/stretchr/testify/assert"
)

func TestPoolProcessesAllTasks(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]bool)

	pool := worker.NewPool(4, 16, func(_ context.Context, task worker.Task) {
		mu.Lock()
		defer mu.Unlock()
		seen[task.JobID] = true
	})
	pool.Start(context.Background())

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		err := pool.Submit(worker.Task{JobID: id})
		assert.NoError(t, err)
	}
	pool.Stop()

	assert.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.True(t, seen[id], "task %s never ran", id)
	}
}

func TestSubmitFullQueue(t *testing.T) {
	block := make(chan struct{})

	pool := worker.NewPool(1, 1, func(_ context.Context, _ worker.Task) {
		<-block
	})
	pool.Start(context.Background())

	// First task occupies the worker, second fills the queue. The queue
	// depth is 1, so one of the next submissions must be rejected.
	var rejected bool
	for i := 0; i < 3; i++ {
		if err := pool.Submit(worker.Task{JobID: "x"}); err != nil {
			assert.ErrorIs(t, err, worker.ErrQueueFull)
			rejected = true
			break
		}
	}
	assert.True(t, rejected)

	close(block)
	pool.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	pool := worker.NewPool(2, 4, func(_ context.Context, _ worker.Task) {})
	pool.Start(context.Background())

	pool.Stop()
	assert.NotPanics(t, func() { pool.Stop() })
}
