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

// Package services contains the business logic over the persisted job
// documents. This file defines the JobStore contract and the JobService,
// the single writer through which every status transition flows.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/google/uuid"
)

// JobStore is the document store contract for ingestion jobs: get, create,
// and whole-document update keyed by job id.
type JobStore interface {
	Create(ctx context.Context, job *model.IngestionJob) error
	Get(ctx context.Context, id string) (*model.IngestionJob, error)
	Update(ctx context.Context, job *model.IngestionJob) error
}

// JobService owns all job mutations. The pipeline is the only writer for a
// given job; callers read through Get.
type JobService struct {
	store JobStore
}

// NewJobService constructs the service over a store implementation.
func NewJobService(store JobStore) *JobService {
	return &JobService{store: store}
}

// Create persists a new pending job for a source URL. The platform is fixed
// at creation time and never changes afterward.
func (s *JobService) Create(ctx context.Context, sourceURL string, title string, platform model.Platform) (*model.IngestionJob, error) {
	now := time.Now().UTC()
	job := &model.IngestionJob{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		Title:     title,
		Platform:  platform,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job for %s: %w", sourceURL, err)
	}
	return job, nil
}

// Get returns the current persisted state of a job.
func (s *JobService) Get(ctx context.Context, id string) (*model.IngestionJob, error) {
	return s.store.Get(ctx, id)
}

// Transition advances a job to the next status and persists it. The move is
// validated against the status machine; an illegal transition leaves the
// job untouched.
func (s *JobService) Transition(ctx context.Context, job *model.IngestionJob, next model.JobStatus) error {
	if !job.Status.CanTransition(next) {
		return fmt.Errorf("cannot move job %s from %s to %s: %w",
			job.ID, job.Status, next, model.ErrInvalidTransition)
	}
	job.Status = next
	job.UpdatedAt = time.Now().UTC()
	return s.store.Update(ctx, job)
}

// Fail marks a job failed with the given reason and persists it. Failing a
// terminal job is an error.
func (s *JobService) Fail(ctx context.Context, job *model.IngestionJob, cause error) error {
	if !job.Status.CanTransition(model.StatusFailed) {
		return fmt.Errorf("cannot fail job %s in state %s: %w",
			job.ID, job.Status, model.ErrInvalidTransition)
	}
	job.Status = model.StatusFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	return s.store.Update(ctx, job)
}

// Update persists the job as-is, refreshing UpdatedAt. Used by stages that
// enrich fields without changing status.
func (s *JobService) Update(ctx context.Context, job *model.IngestionJob) error {
	job.UpdatedAt = time.Now().UTC()
	return s.store.Update(ctx, job)
}
