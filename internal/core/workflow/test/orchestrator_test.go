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

// Package workflow_test exercises the full orchestration over faked platform
// and hosting backends: a tikwm-shaped metadata server, an httptest
// rendition server, and in-process uploader and analyzer stand-ins. No cloud
// credentials are required.
package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/download"
	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/platform"
	"github.com/clipforge/social-ingest/internal/core/services"
	"github.com/clipforge/social-ingest/internal/core/workflow"
	"github.com/clipforge/social-ingest/internal/worker"
	"github.com/stretchr/testify/assert"
)

// fakeMP4 builds a payload that sniffs as video/mp4: an ftyp box with the
// isom brand followed by padding.
func fakeMP4(size int) []byte {
	body := make([]byte, size)
	copy(body[4:], []byte("ftypisom"))
	return body
}

type fakeUploader struct {
	calls   atomic.Int64
	streams atomic.Int64
	fail    bool
}

func (u *fakeUploader) Upload(_ context.Context, _ []byte, filename string, _ string) (string, string, error) {
	u.calls.Add(1)
	if u.fail {
		return "", "", errors.New("hosting bucket unreachable")
	}
	return "https://storage.mtls.cloud.google.com/clipforge-media/" + filename, filename, nil
}

func (u *fakeUploader) UploadFromURL(_ context.Context, _ string, filename string) (string, string, error) {
	u.calls.Add(1)
	u.streams.Add(1)
	if u.fail {
		return "", "", errors.New("hosting bucket unreachable")
	}
	return "https://storage.mtls.cloud.google.com/clipforge-media/" + filename, filename, nil
}

type fakeAnalyzer struct {
	calls atomic.Int64
	fail  bool
}

func (a *fakeAnalyzer) Analyze(_ context.Context, ref *model.VideoRef, metadata *model.SourceMetadata) (*model.ContentAnalysis, error) {
	a.calls.Add(1)
	if a.fail {
		return nil, fmt.Errorf("transcript call: %w", model.ErrServiceUnavailable)
	}
	return &model.ContentAnalysis{
		Transcript: "welcome back to the channel",
		Components: model.ScriptComponents{
			Hook:         "welcome back",
			Bridge:       "today we cover",
			Nugget:       "the one trick",
			CallToAction: "subscribe",
		},
		Metadata: model.ContentMetadata{
			Platform: metadata.Platform,
			Author:   metadata.Author,
			Category: "education",
		},
	}, nil
}

// harness wires a complete orchestrator over httptest backends.
type harness struct {
	jobService   *services.JobService
	orchestrator *workflow.Orchestrator
	pool         *worker.Pool
	uploader     *fakeUploader
	analyzer     *fakeAnalyzer
}

// newHarness starts a metadata server answering in the tikwm envelope and a
// media server for the rendition bytes. Passing zero renditions makes the
// metadata response carry no playable URLs.
func newHarness(t *testing.T, renditions bool, uploadFails bool, analyzeFails bool) *harness {
	t.Helper()

	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fakeMP4(64 * 1024))
	}))
	t.Cleanup(media.Close)

	meta := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		play := ""
		if renditions {
			play = media.URL + "/play.mp4"
		}
		_, _ = fmt.Fprintf(w, `{"code":0,"msg":"success","data":{
			"id":"7299","title":"how i edit","duration":31,
			"play":%q,"size":1048576,
			"digg_count":120,"play_count":4000,"comment_count":9,
			"author":{"unique_id":"maker","nickname":"Maker"}}}`, play)
	}))
	t.Cleanup(meta.Close)

	jobService := services.NewJobService(services.NewMemoryJobStore())
	registry := platform.NewRegistry(platform.NewTikTokAdapter(meta.URL, meta.Client()))
	cache := platform.NewMetadataCache(time.Minute, nil)
	fetcher := download.NewFetcher(media.Client(), 5*time.Second, 1024)

	uploader := &fakeUploader{fail: uploadFails}
	analyzer := &fakeAnalyzer{fail: analyzeFails}

	ingest := workflow.NewIngestPipeline(registry, cache, fetcher, uploader, jobService, 5*time.Second)
	analysis := workflow.NewAnalysisPipeline(analyzer, "clipforge-media", jobService, nil, "", "")

	var orchestrator *workflow.Orchestrator
	pool := worker.NewPool(2, 8, func(ctx context.Context, task worker.Task) {
		orchestrator.RunAnalysis(ctx, task)
	})
	orchestrator = workflow.NewOrchestrator(jobService, ingest, analysis, pool)
	pool.Start(context.Background())

	return &harness{
		jobService:   jobService,
		orchestrator: orchestrator,
		pool:         pool,
		uploader:     uploader,
		analyzer:     analyzer,
	}
}

func TestIngestCompletes(t *testing.T) {
	h := newHarness(t, true, false, false)
	ctx := context.Background()

	job, err := h.orchestrator.Ingest(ctx, &model.IngestRequest{URL: "https://www.tiktok.com/@maker/video/7299"})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusTranscribing, job.Status)
	assert.NotEmpty(t, job.CdnURL)
	assert.Equal(t, model.PlatformTikTok, job.Platform)
	assert.Equal(t, "how i edit", job.Title)
	assert.Equal(t, int64(120), job.Metrics.Likes)

	h.pool.Stop()

	final, err := h.jobService.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, final.Status)
	assert.Equal(t, "welcome back to the channel", final.Transcript)
	assert.Equal(t, "subscribe", final.Components.CallToAction)
	assert.Equal(t, int64(1), h.analyzer.calls.Load())
	assert.Equal(t, int64(1), h.uploader.streams.Load())
}

// The job returned by Ingest is serialized by the HTTP layer while the
// worker pool is still running the analysis chain. The two sides must not
// share a document: the caller's copy stays frozen at Transcribing while the
// stored job moves on to Completed.
func TestReturnedJobNotMutatedByBackgroundAnalysis(t *testing.T) {
	h := newHarness(t, true, false, false)
	ctx := context.Background()

	job, err := h.orchestrator.Ingest(ctx, &model.IngestRequest{URL: "https://www.tiktok.com/@maker/video/7299"})
	assert.NoError(t, err)

	before, err := json.Marshal(job)
	assert.NoError(t, err)

	h.pool.Stop()

	after, err := json.Marshal(job)
	assert.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, model.StatusTranscribing, job.Status)
	assert.Empty(t, job.Transcript)

	final, err := h.jobService.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, final.Status)
	assert.NotEmpty(t, final.Transcript)
}

func TestIngestCdnFailureStillCompletes(t *testing.T) {
	h := newHarness(t, true, true, false)
	ctx := context.Background()

	job, err := h.orchestrator.Ingest(ctx, &model.IngestRequest{URL: "https://www.tiktok.com/@maker/video/7299"})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusTranscribing, job.Status)
	assert.Empty(t, job.CdnURL)
	assert.Empty(t, job.AssetID)

	h.pool.Stop()

	final, err := h.jobService.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, final.Status)
	assert.Empty(t, final.CdnURL)
	assert.NotEmpty(t, final.Transcript)
}

func TestIngestZeroRenditionsFailsFast(t *testing.T) {
	h := newHarness(t, false, false, false)
	ctx := context.Background()

	_, err := h.orchestrator.Ingest(ctx, &model.IngestRequest{URL: "https://www.tiktok.com/@maker/video/7299"})
	assert.ErrorIs(t, err, model.ErrNotFoundOrPrivate)

	h.pool.Stop()

	// Neither the relay nor the analyzer may run for an undownloadable job.
	assert.Equal(t, int64(0), h.uploader.calls.Load())
	assert.Equal(t, int64(0), h.analyzer.calls.Load())
}

func TestIngestUnsupportedURL(t *testing.T) {
	h := newHarness(t, true, false, false)
	defer h.pool.Stop()

	_, err := h.orchestrator.Ingest(context.Background(), &model.IngestRequest{URL: "https://example.com/watch/123"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, int64(0), h.uploader.calls.Load())
}

func TestAnalysisFailureFailsJob(t *testing.T) {
	h := newHarness(t, true, false, true)
	ctx := context.Background()

	job, err := h.orchestrator.Ingest(ctx, &model.IngestRequest{URL: "https://www.tiktok.com/@maker/video/7299"})
	assert.NoError(t, err)

	h.pool.Stop()

	final, err := h.jobService.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusFailed, final.Status)
	assert.NotEmpty(t, final.Error)
}

func TestTriggerPipelineIngests(t *testing.T) {
	h := newHarness(t, true, false, false)
	ctx := context.Background()

	trigger := workflow.NewIngestTriggerPipeline(h.orchestrator)

	chainCtx := newTriggerContext(ctx, `{"url":"https://www.tiktok.com/@maker/video/7299","title":"queued"}`)
	trigger.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())

	h.pool.Stop()
}

// newTriggerContext builds the chain context a Pub/Sub listener would hand
// to the trigger pipeline.
func newTriggerContext(ctx context.Context, body string) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, body)
	return chainCtx
}

func TestTriggerPipelineRejectsBadBody(t *testing.T) {
	h := newHarness(t, true, false, false)
	defer h.pool.Stop()

	trigger := workflow.NewIngestTriggerPipeline(h.orchestrator)

	chainCtx := newTriggerContext(context.Background(), `{"title":"missing url"}`)
	trigger.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}
