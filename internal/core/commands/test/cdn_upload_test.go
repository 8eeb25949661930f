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

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/clipforge/social-ingest/internal/core/commands"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/services"
	"github.com/stretchr/testify/assert"
)

// countingUploader records which relay path ran and can fail either side
// independently.
type countingUploader struct {
	streamCalls   int
	bufferedCalls int
	failStream    bool
	failBuffered  bool
}

func (u *countingUploader) Upload(_ context.Context, _ []byte, filename string, _ string) (string, string, error) {
	u.bufferedCalls++
	if u.failBuffered {
		return "", "", errors.New("bucket write refused")
	}
	return "https://storage.mtls.cloud.google.com/clipforge-media/" + filename, filename, nil
}

func (u *countingUploader) UploadFromURL(_ context.Context, _ string, filename string) (string, string, error) {
	u.streamCalls++
	if u.failStream {
		return "", "", errors.New("source stream expired")
	}
	return "https://storage.mtls.cloud.google.com/clipforge-media/" + filename, filename, nil
}

// newUploadContext builds a chain context holding a job already in
// Downloading plus a downloaded payload.
func newUploadContext(t *testing.T, jobService *services.JobService, sourceURL string) (cor.Context, *model.IngestionJob) {
	t.Helper()
	ctx := context.Background()

	job, err := jobService.Create(ctx, "https://www.tiktok.com/@maker/video/7299", "", model.PlatformTikTok)
	assert.NoError(t, err)
	assert.NoError(t, jobService.Transition(ctx, job, model.StatusDownloading))

	payload := &model.MediaPayload{
		Bytes:     []byte("not a real mp4 but the relay does not care"),
		MIMEType:  "video/mp4",
		Size:      42,
		Filename:  "tiktok_7299.mp4",
		SourceURL: sourceURL,
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.GetJobParamName(), job)
	chainCtx.Add(commands.GetPayloadParamName(), payload)
	return chainCtx, job
}

func TestCdnUploadPrefersSourceStream(t *testing.T) {
	jobService := services.NewJobService(services.NewMemoryJobStore())
	uploader := &countingUploader{}
	cmd := commands.NewCdnUpload("relay-to-cdn", uploader, jobService)

	chainCtx, job := newUploadContext(t, jobService, "https://cdn.example.com/play.mp4")
	assert.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 1, uploader.streamCalls)
	assert.Equal(t, 0, uploader.bufferedCalls)
	assert.Equal(t, model.StatusUploading, job.Status)
	assert.NotEmpty(t, job.CdnURL)
	assert.NotEmpty(t, job.AssetID)
}

func TestCdnUploadFallsBackToBufferedBytes(t *testing.T) {
	jobService := services.NewJobService(services.NewMemoryJobStore())
	uploader := &countingUploader{failStream: true}
	cmd := commands.NewCdnUpload("relay-to-cdn", uploader, jobService)

	chainCtx, job := newUploadContext(t, jobService, "https://cdn.example.com/play.mp4")
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 1, uploader.streamCalls)
	assert.Equal(t, 1, uploader.bufferedCalls)
	assert.NotEmpty(t, job.CdnURL)
}

func TestCdnUploadBuffersWhenSourceUnknown(t *testing.T) {
	jobService := services.NewJobService(services.NewMemoryJobStore())
	uploader := &countingUploader{}
	cmd := commands.NewCdnUpload("relay-to-cdn", uploader, jobService)

	chainCtx, job := newUploadContext(t, jobService, "")
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 0, uploader.streamCalls)
	assert.Equal(t, 1, uploader.bufferedCalls)
	assert.NotEmpty(t, job.CdnURL)
}

func TestCdnUploadAbsorbsTotalFailure(t *testing.T) {
	jobService := services.NewJobService(services.NewMemoryJobStore())
	uploader := &countingUploader{failStream: true, failBuffered: true}
	cmd := commands.NewCdnUpload("relay-to-cdn", uploader, jobService)

	chainCtx, job := newUploadContext(t, jobService, "https://cdn.example.com/play.mp4")
	cmd.Execute(chainCtx)

	// Hosting failures never fail the chain; the payload still flows on so
	// the analyzer can fall back to inline bytes.
	assert.False(t, chainCtx.HasErrors())
	assert.Empty(t, job.CdnURL)
	assert.Empty(t, job.AssetID)
	assert.NotNil(t, chainCtx.Get(cmd.GetOutputParam()))
}
