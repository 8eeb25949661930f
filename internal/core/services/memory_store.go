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

// In-memory JobStore used by tests and local runs without Redis. Documents
// round-trip through the same JSON encoding as the Redis store, so reads
// return independent copies with identical serialization semantics.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// MemoryJobStore keeps job documents in a mutex-guarded map.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string][]byte
}

// NewMemoryJobStore constructs an empty in-memory store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string][]byte)}
}

// Create stores a new job document.
func (s *MemoryJobStore) Create(_ context.Context, job *model.IngestionJob) error {
	return s.write(job)
}

// Update overwrites the job document with the given state.
func (s *MemoryJobStore) Update(_ context.Context, job *model.IngestionJob) error {
	return s.write(job)
}

func (s *MemoryJobStore) write(job *model.IngestionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling job %s: %w", job.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = payload
	return nil
}

// Get fetches a job document by id, returning a copy decoupled from the
// stored state.
func (s *MemoryJobStore) Get(_ context.Context, id string) (*model.IngestionJob, error) {
	s.mu.RLock()
	payload, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, model.ErrJobNotFound)
	}

	var job model.IngestionJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", id, err)
	}
	return &job, nil
}
