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

// Package model_test contains unit tests for the data models, covering the
// job status machine and the error-to-HTTP mapping.
package model_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestStatusForwardPath walks the happy path one step at a time and verifies
// each single-step transition is legal while skipping ahead is not.
func TestStatusForwardPath(t *testing.T) {
	path := []model.JobStatus{
		model.StatusPending,
		model.StatusDownloading,
		model.StatusUploading,
		model.StatusTranscribing,
		model.StatusCompleted,
	}

	for i := 0; i < len(path)-1; i++ {
		assert.True(t, path[i].CanTransition(path[i+1]), "step %s -> %s", path[i], path[i+1])
	}

	// Skipping a stage is never allowed.
	assert.False(t, model.StatusPending.CanTransition(model.StatusUploading))
	assert.False(t, model.StatusDownloading.CanTransition(model.StatusTranscribing))
	assert.False(t, model.StatusUploading.CanTransition(model.StatusCompleted))

	// Backward transitions are never allowed.
	assert.False(t, model.StatusUploading.CanTransition(model.StatusDownloading))
	assert.False(t, model.StatusTranscribing.CanTransition(model.StatusPending))
}

// TestStatusFailedTransitions verifies Failed is reachable from every
// non-terminal state and that terminal states admit no further transitions.
func TestStatusFailedTransitions(t *testing.T) {
	for _, s := range []model.JobStatus{
		model.StatusPending,
		model.StatusDownloading,
		model.StatusUploading,
		model.StatusTranscribing,
	} {
		assert.True(t, s.CanTransition(model.StatusFailed), "from %s", s)
		assert.False(t, s.Terminal())
	}

	assert.True(t, model.StatusCompleted.Terminal())
	assert.True(t, model.StatusFailed.Terminal())
	assert.False(t, model.StatusCompleted.CanTransition(model.StatusFailed))
	assert.False(t, model.StatusFailed.CanTransition(model.StatusPending))
	assert.False(t, model.StatusFailed.CanTransition(model.StatusFailed))
}

// TestSetAnalysis verifies the transcript, components, and metadata land on
// the job together as one unit.
func TestSetAnalysis(t *testing.T) {
	job := &model.IngestionJob{ID: "job-1", Status: model.StatusTranscribing}
	analysis := &model.ContentAnalysis{
		Transcript: "full transcript text",
		Components: model.ScriptComponents{
			Hook:         "hook text",
			Bridge:       "bridge text",
			Nugget:       "nugget text",
			CallToAction: "cta text",
		},
		Metadata: model.ContentMetadata{
			Platform: model.PlatformTikTok,
			Author:   "creator",
			Category: "education",
			Hashtags: []string{"#one"},
		},
	}

	job.SetAnalysis(analysis)

	assert.Equal(t, "full transcript text", job.Transcript)
	assert.NotNil(t, job.Components)
	assert.Equal(t, "hook text", job.Components.Hook)
	assert.Equal(t, "cta text", job.Components.CallToAction)
	assert.NotNil(t, job.ContentMetadata)
	assert.Equal(t, model.PlatformTikTok, job.ContentMetadata.Platform)
	assert.False(t, job.Degraded)
}

// TestPlatformKnown covers the ingestable platform check.
func TestPlatformKnown(t *testing.T) {
	assert.True(t, model.PlatformTikTok.Known())
	assert.True(t, model.PlatformInstagram.Known())
	assert.True(t, model.PlatformYouTube.Known())
	assert.False(t, model.PlatformUnknown.Known())
}

// TestHTTPStatus verifies each error kind maps to its boundary status code,
// including through %w wrapping.
func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{model.ErrInvalidInput, http.StatusBadRequest},
		{model.ErrRateLimited, http.StatusTooManyRequests},
		{model.ErrNotFoundOrPrivate, http.StatusNotFound},
		{model.ErrJobNotFound, http.StatusNotFound},
		{model.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{model.ErrInvalidTransition, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, model.HTTPStatus(tc.err))
		wrapped := fmt.Errorf("stage failed: %w", tc.err)
		assert.Equal(t, tc.code, model.HTTPStatus(wrapped))
	}
}
