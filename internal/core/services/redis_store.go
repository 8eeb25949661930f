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

// Redis-backed JobStore. Jobs are stored as JSON documents under
// <prefix><job-id>, with no expiry; job lifecycle is owned by callers, not
// the store.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/redis/go-redis/v9"
)

// DefaultJobKeyPrefix namespaces job documents in a shared Redis instance.
const DefaultJobKeyPrefix = "ingest:job:"

// RedisJobStore persists job documents in Redis.
type RedisJobStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisJobStore constructs a store over an existing client. An empty
// prefix falls back to DefaultJobKeyPrefix.
func NewRedisJobStore(client *redis.Client, keyPrefix string) *RedisJobStore {
	if keyPrefix == "" {
		keyPrefix = DefaultJobKeyPrefix
	}
	return &RedisJobStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisJobStore) key(id string) string {
	return s.keyPrefix + id
}

// Create stores a new job document.
func (s *RedisJobStore) Create(ctx context.Context, job *model.IngestionJob) error {
	return s.write(ctx, job)
}

// Update overwrites the job document with the given state.
func (s *RedisJobStore) Update(ctx context.Context, job *model.IngestionJob) error {
	return s.write(ctx, job)
}

func (s *RedisJobStore) write(ctx context.Context, job *model.IngestionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling job %s: %w", job.ID, err)
	}
	if err := s.client.Set(ctx, s.key(job.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("writing job %s: %w", job.ID, err)
	}
	return nil
}

// Get fetches a job document by id.
func (s *RedisJobStore) Get(ctx context.Context, id string) (*model.IngestionJob, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("job %s: %w", id, model.ErrJobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading job %s: %w", id, err)
	}

	var job model.IngestionJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", id, err)
	}
	return &job, nil
}
