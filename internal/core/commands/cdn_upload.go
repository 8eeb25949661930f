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

// This file defines the command that relays downloaded bytes to the hosting
// bucket. Hosting is an optimization: when the upload fails the command logs
// it, leaves the job's cdnUrl empty, and lets the chain continue, so the
// analyzer falls back to sending the raw bytes inline.

package commands

import (
	"context"
	"log/slog"

	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/services"
)

// CdnUploader is the upload capability the command depends on, satisfied by
// cdnrelay.Relay. UploadFromURL re-streams the source rendition without
// buffering; Upload is the fallback that writes the already-downloaded
// bytes.
type CdnUploader interface {
	Upload(ctx context.Context, payload []byte, filename string, mimeType string) (playbackURL string, assetID string, err error)
	UploadFromURL(ctx context.Context, remoteURL string, filename string) (playbackURL string, assetID string, err error)
}

// CdnUpload relays the downloaded payload to the hosting service.
type CdnUpload struct {
	cor.BaseCommand
	uploader   CdnUploader
	jobService *services.JobService
}

// NewCdnUpload is the constructor for the CdnUpload command.
func NewCdnUpload(name string, uploader CdnUploader, jobService *services.JobService) *CdnUpload {
	return &CdnUpload{BaseCommand: *cor.NewBaseCommand(name), uploader: uploader, jobService: jobService}
}

// IsExecutable requires the job and the downloaded payload to be present.
func (c *CdnUpload) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetJobParamName()) != nil &&
		context.Get(GetPayloadParamName()) != nil
}

// Execute moves the job to Uploading and attempts the relay. Upload failures
// are absorbed, never recorded as chain errors.
func (c *CdnUpload) Execute(chainCtx cor.Context) {
	job := chainCtx.Get(GetJobParamName()).(*model.IngestionJob)
	payload := chainCtx.Get(GetPayloadParamName()).(*model.MediaPayload)

	if err := c.jobService.Transition(chainCtx.GetContext(), job, model.StatusUploading); err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), err)
		return
	}

	playbackURL, assetID, err := c.relay(chainCtx.GetContext(), payload)
	if err != nil {
		slog.Warn("cdn upload failed, continuing without playback url",
			"job_id", job.ID,
			"filename", payload.Filename,
			"error", err)
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
	} else {
		job.CdnURL = playbackURL
		job.AssetID = assetID
		if err := c.jobService.Update(chainCtx.GetContext(), job); err != nil {
			c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
			chainCtx.AddError(c.GetName(), err)
			return
		}
		c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	}

	chainCtx.Add(c.GetOutputParam(), payload)
}

// relay streams the source URL into the bucket when one is known, falling
// back to the buffered bytes when the re-stream fails (expired stream URLs
// are common on short-lived platform CDNs).
func (c *CdnUpload) relay(ctx context.Context, payload *model.MediaPayload) (string, string, error) {
	if payload.SourceURL != "" {
		playbackURL, assetID, err := c.uploader.UploadFromURL(ctx, payload.SourceURL, payload.Filename)
		if err == nil {
			return playbackURL, assetID, nil
		}
		slog.Warn("cdn stream from source failed, retrying with buffered payload",
			"filename", payload.Filename,
			"error", err)
	}
	return c.uploader.Upload(ctx, payload.Bytes, payload.Filename, payload.MIMEType)
}
