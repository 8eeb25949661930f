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

// This file implements the Orchestrator, the seam between the two pipeline
// halves. Ingest runs the synchronous chain and returns a job handle as soon
// as the job reaches Transcribing; RunAnalysis is the worker-pool handler
// that finishes the job in the background.

package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clipforge/social-ingest/internal/core/commands"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/platform"
	"github.com/clipforge/social-ingest/internal/core/services"
	"github.com/clipforge/social-ingest/internal/worker"
)

// Orchestrator sequences the ingestion stages and owns the handoff to the
// background worker pool.
type Orchestrator struct {
	jobService *services.JobService
	ingest     *IngestWorkflow
	analysis   *AnalysisWorkflow
	pool       *worker.Pool
}

// NewOrchestrator wires the two workflows to the job service and the worker
// pool that runs the analysis half.
func NewOrchestrator(
	jobService *services.JobService,
	ingest *IngestWorkflow,
	analysis *AnalysisWorkflow,
	pool *worker.Pool,
) *Orchestrator {
	return &Orchestrator{
		jobService: jobService,
		ingest:     ingest,
		analysis:   analysis,
		pool:       pool,
	}
}

// Ingest runs the synchronous half of the pipeline for a source URL. On
// success the returned job is in Transcribing and the analysis has been
// queued; on failure the job (if one was created) is Failed and the error
// carries the classification for the HTTP layer.
func (o *Orchestrator) Ingest(ctx context.Context, request *model.IngestRequest) (*model.IngestionJob, error) {
	detected, identifier := platform.Detect(request.URL)
	if !detected.Known() {
		return nil, fmt.Errorf("unsupported source url %q: %w", request.URL, model.ErrInvalidInput)
	}

	job, err := o.jobService.Create(ctx, request.URL, request.Title, detected)
	if err != nil {
		return nil, err
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.GetJobParamName(), job)
	chainCtx.Add(commands.GetSourceParamName(), identifier)

	o.ingest.Execute(chainCtx)

	if chainCtx.HasErrors() {
		err := firstError(chainCtx)
		o.failJob(ctx, job, err)
		return nil, err
	}

	metadata := chainCtx.Get(commands.GetMetadataParamName()).(*model.SourceMetadata)
	payload := chainCtx.Get(commands.GetPayloadParamName()).(*model.MediaPayload)

	if err := o.jobService.Transition(ctx, job, model.StatusTranscribing); err != nil {
		o.failJob(ctx, job, err)
		return nil, err
	}

	task := worker.Task{JobID: job.ID, Metadata: metadata, Payload: payload}
	if err := o.pool.Submit(task); err != nil {
		err = fmt.Errorf("queueing analysis for job %s: %w", job.ID, model.ErrServiceUnavailable)
		o.failJob(ctx, job, err)
		return nil, err
	}

	return job, nil
}

// RunAnalysis executes the background chain for one queued task. It is the
// handler installed on the worker pool. The task carries only the job id;
// the worker mutates its own copy loaded from the store, never the document
// the HTTP response was built from.
func (o *Orchestrator) RunAnalysis(ctx context.Context, task worker.Task) {
	job, err := o.jobService.Get(ctx, task.JobID)
	if err != nil {
		slog.Error("could not load queued job for analysis", "job_id", task.JobID, "error", err)
		return
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.GetJobParamName(), job)
	chainCtx.Add(commands.GetMetadataParamName(), task.Metadata)
	chainCtx.Add(commands.GetPayloadParamName(), task.Payload)

	o.analysis.Execute(chainCtx)

	if chainCtx.HasErrors() {
		o.failJob(ctx, job, firstError(chainCtx))
	}
}

// failJob marks the job failed, tolerating jobs already in a terminal state.
func (o *Orchestrator) failJob(ctx context.Context, job *model.IngestionJob, cause error) {
	if err := o.jobService.Fail(ctx, job, cause); err != nil {
		slog.Error("could not mark job failed", "job_id", job.ID, "cause", cause, "error", err)
	}
}

// firstError returns one representative error from the chain context.
func firstError(chainCtx cor.Context) error {
	for name, err := range chainCtx.GetErrors() {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
