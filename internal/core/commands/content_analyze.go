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

// This file defines the command that runs the multimodal content analysis.
// When the asset was hosted the model reads it by GCS URI; otherwise the raw
// downloaded bytes are sent inline. A failed transcript call is the only
// analyzer error that reaches the chain, and with it the job.

package commands

import (
	"context"
	"fmt"

	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
)

// ContentAnalyzer is the analysis capability the command depends on,
// satisfied by analysis.Analyzer.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, ref *model.VideoRef, metadata *model.SourceMetadata) (*model.ContentAnalysis, error)
}

// ContentAnalyze produces the transcript, script components, and content
// metadata for a downloaded video.
type ContentAnalyze struct {
	cor.BaseCommand
	analyzer ContentAnalyzer
	bucket   string
}

// NewContentAnalyze is the constructor for the ContentAnalyze command. The
// bucket names the hosting bucket assets were relayed into.
func NewContentAnalyze(name string, analyzer ContentAnalyzer, bucket string) *ContentAnalyze {
	return &ContentAnalyze{BaseCommand: *cor.NewBaseCommand(name), analyzer: analyzer, bucket: bucket}
}

// IsExecutable requires the job, the metadata, and the payload.
func (c *ContentAnalyze) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetJobParamName()) != nil &&
		context.Get(GetMetadataParamName()) != nil &&
		context.Get(GetPayloadParamName()) != nil
}

// Execute builds the video reference and runs the analyzer.
func (c *ContentAnalyze) Execute(chainCtx cor.Context) {
	job := chainCtx.Get(GetJobParamName()).(*model.IngestionJob)
	metadata := chainCtx.Get(GetMetadataParamName()).(*model.SourceMetadata)
	payload := chainCtx.Get(GetPayloadParamName()).(*model.MediaPayload)

	// Prefer the hosted copy; inline bytes are the degraded path when the
	// relay stage could not host the asset.
	ref := &model.VideoRef{MIMEType: payload.MIMEType}
	if job.AssetID != "" {
		ref.PlaybackURL = fmt.Sprintf("gs://%s/%s", c.bucket, job.AssetID)
	} else {
		ref.Bytes = payload.Bytes
	}
	chainCtx.Add(GetVideoRefParamName(), ref)

	contentAnalysis, err := c.analyzer.Analyze(chainCtx.GetContext(), ref, metadata)
	if err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), fmt.Errorf("analyzing job %s: %w", job.ID, err))
		return
	}

	c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	chainCtx.Add(GetAnalysisParamName(), contentAnalysis)
	chainCtx.Add(c.GetOutputParam(), contentAnalysis)
}
