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

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func newService() *services.JobService {
	return services.NewJobService(services.NewMemoryJobStore())
}

func TestCreateJob(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://www.tiktok.com/@maker/video/7299", "How I edit", model.PlatformTikTok)
	assert.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, model.StatusPending, job.Status)
	assert.Equal(t, model.PlatformTikTok, job.Platform)
	assert.Equal(t, "How I edit", job.Title)
	assert.False(t, job.CreatedAt.IsZero())

	stored, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, job.ID, stored.ID)
	assert.Equal(t, job.SourceURL, stored.SourceURL)
}

func TestGetUnknownJob(t *testing.T) {
	svc := newService()

	_, err := svc.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, model.ErrJobNotFound)
}

func TestTransitionForward(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://youtu.be/dQw4w9WgXcQ", "", model.PlatformYouTube)
	assert.NoError(t, err)

	for _, next := range []model.JobStatus{
		model.StatusDownloading,
		model.StatusUploading,
		model.StatusTranscribing,
		model.StatusCompleted,
	} {
		assert.NoError(t, svc.Transition(ctx, job, next))
		assert.Equal(t, next, job.Status)

		stored, err := svc.Get(ctx, job.ID)
		assert.NoError(t, err)
		assert.Equal(t, next, stored.Status)
	}
}

func TestTransitionSkipRejected(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://www.instagram.com/reel/Cx1/", "", model.PlatformInstagram)
	assert.NoError(t, err)

	err = svc.Transition(ctx, job, model.StatusTranscribing)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	// The rejected move must not leak into the store.
	stored, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestFail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://www.tiktok.com/@maker/video/7300", "", model.PlatformTikTok)
	assert.NoError(t, err)
	assert.NoError(t, svc.Transition(ctx, job, model.StatusDownloading))

	assert.NoError(t, svc.Fail(ctx, job, errors.New("source unreachable")))
	assert.Equal(t, model.StatusFailed, job.Status)

	stored, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusFailed, stored.Status)
	assert.Equal(t, "source unreachable", stored.Error)
}

func TestFailTerminalRejected(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://www.tiktok.com/@maker/video/7301", "", model.PlatformTikTok)
	assert.NoError(t, err)
	assert.NoError(t, svc.Fail(ctx, job, errors.New("first failure")))

	err = svc.Fail(ctx, job, errors.New("second failure"))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	stored, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, "first failure", stored.Error)
}

func TestStoredCopiesAreIndependent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://www.tiktok.com/@maker/video/7302", "original", model.PlatformTikTok)
	assert.NoError(t, err)

	first, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	first.Title = "mutated locally"

	second, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, "original", second.Title)
}

func TestUpdateEnrichment(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.Create(ctx, "https://www.tiktok.com/@maker/video/7303", "", model.PlatformTikTok)
	assert.NoError(t, err)

	job.Metrics = model.EngagementMetrics{Likes: 120, Views: 4000}
	job.Title = "resolved title"
	assert.NoError(t, svc.Update(ctx, job))

	stored, err := svc.Get(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(120), stored.Metrics.Likes)
	assert.Equal(t, "resolved title", stored.Title)
	assert.Equal(t, model.StatusPending, stored.Status)
}
