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

// Package workflow combines the pipeline commands into the coherent
// orchestrations the server runs. This file implements the synchronous half
// of an ingestion: everything that happens before the HTTP response goes
// back to the caller.
package workflow

import (
	"time"

	"github.com/clipforge/social-ingest/internal/core/commands"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/download"
	"github.com/clipforge/social-ingest/internal/core/platform"
	"github.com/clipforge/social-ingest/internal/core/services"
)

// IngestWorkflow is the synchronous ingestion chain: resolve metadata,
// download the best rendition, relay it to the hosting bucket. The chain
// stops at the first error except inside the relay step, which absorbs its
// own failures.
type IngestWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

// Execute runs the ingestion chain over the shared context.
func (w *IngestWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// NewIngestPipeline is the constructor for the IngestWorkflow. The metadata
// timeout bounds the platform API call made by the first command.
func NewIngestPipeline(
	registry *platform.Registry,
	cache *platform.MetadataCache,
	fetcher *download.Fetcher,
	uploader commands.CdnUploader,
	jobService *services.JobService,
	metadataTimeout time.Duration,
) *IngestWorkflow {
	out := cor.NewBaseChain("ingest-pipeline")
	out.AddCommand(commands.NewMetadataFetch("fetch-source-metadata", registry, cache, jobService, metadataTimeout))
	out.AddCommand(commands.NewRenditionDownload("download-rendition", fetcher))
	out.AddCommand(commands.NewCdnUpload("relay-to-cdn", uploader, jobService))

	return &IngestWorkflow{
		BaseCommand: *cor.NewBaseCommand("ingest-workflow"),
		chain:       out,
	}
}
