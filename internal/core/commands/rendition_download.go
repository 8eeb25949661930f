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

// This file defines the command that downloads the video binary. The fetcher
// walks the metadata's renditions best-first, so a single bad rendition URL
// does not fail the job as long as another one delivers playable bytes.

package commands

import (
	"fmt"

	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/download"
	"github.com/clipforge/social-ingest/internal/core/model"
)

// RenditionDownload fetches the video bytes for the resolved metadata.
type RenditionDownload struct {
	cor.BaseCommand
	fetcher *download.Fetcher
}

// NewRenditionDownload is the constructor for the RenditionDownload command.
func NewRenditionDownload(name string, fetcher *download.Fetcher) *RenditionDownload {
	return &RenditionDownload{BaseCommand: *cor.NewBaseCommand(name), fetcher: fetcher}
}

// IsExecutable requires the resolved metadata to be present.
func (c *RenditionDownload) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetMetadataParamName()) != nil
}

// Execute downloads the best available rendition into memory.
func (c *RenditionDownload) Execute(chainCtx cor.Context) {
	metadata := chainCtx.Get(GetMetadataParamName()).(*model.SourceMetadata)

	payload, err := c.fetcher.Fetch(chainCtx.GetContext(), metadata)
	if err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), fmt.Errorf("downloading %s/%s: %w", metadata.Platform, metadata.Identifier, err))
		return
	}

	c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	chainCtx.Add(GetPayloadParamName(), payload)
	chainCtx.Add(c.GetOutputParam(), payload)
}
