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

// This file defines the first command of the ingestion chain. It moves the
// job into the Downloading state, resolves the source video's metadata
// through the platform adapter registry (consulting the TTL cache first),
// and enriches the job record with the title and engagement counters before
// handing the metadata to the download command.

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/platform"
	"github.com/clipforge/social-ingest/internal/core/services"
)

// MetadataFetch resolves source metadata for the job's platform identifier.
type MetadataFetch struct {
	cor.BaseCommand
	registry   *platform.Registry
	cache      *platform.MetadataCache
	jobService *services.JobService
	timeout    time.Duration
}

// NewMetadataFetch is the constructor for the MetadataFetch command. The
// timeout bounds the upstream metadata call.
func NewMetadataFetch(
	name string,
	registry *platform.Registry,
	cache *platform.MetadataCache,
	jobService *services.JobService,
	timeout time.Duration,
) *MetadataFetch {
	return &MetadataFetch{
		BaseCommand: *cor.NewBaseCommand(name),
		registry:    registry,
		cache:       cache,
		jobService:  jobService,
		timeout:     timeout,
	}
}

// IsExecutable requires the job and the source identifier to be present.
func (c *MetadataFetch) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetJobParamName()) != nil &&
		context.Get(GetSourceParamName()) != nil
}

// Execute resolves and caches the metadata, then merges it into the job.
func (c *MetadataFetch) Execute(chainCtx cor.Context) {
	job := chainCtx.Get(GetJobParamName()).(*model.IngestionJob)
	identifier := chainCtx.Get(GetSourceParamName()).(string)

	if err := c.jobService.Transition(chainCtx.GetContext(), job, model.StatusDownloading); err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), err)
		return
	}

	metadata := c.cache.Get(job.Platform, identifier)
	if metadata == nil {
		adapter, err := c.registry.Lookup(job.Platform)
		if err != nil {
			c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
			chainCtx.AddError(c.GetName(), err)
			return
		}

		ctx, cancel := context.WithTimeout(chainCtx.GetContext(), c.timeout)
		defer cancel()

		metadata, err = adapter.Metadata(ctx, identifier)
		if err != nil {
			c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
			chainCtx.AddError(c.GetName(), fmt.Errorf("resolving %s metadata for %s: %w", job.Platform, identifier, err))
			return
		}
		c.cache.Put(job.Platform, identifier, metadata)
	}

	// A caller-supplied title wins over the platform's own.
	if job.Title == "" {
		job.Title = metadata.Title
	}
	job.Metrics = metadata.Metrics
	if err := c.jobService.Update(chainCtx.GetContext(), job); err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	chainCtx.Add(GetMetadataParamName(), metadata)
	chainCtx.Add(c.GetOutputParam(), metadata)
}
