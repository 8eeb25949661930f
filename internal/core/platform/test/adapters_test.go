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

package platform_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/platform"
	"github.com/stretchr/testify/assert"
)

const tikwmBody = `{
  "code": 0,
  "msg": "success",
  "data": {
    "id": "7301234567890123456",
    "title": "how i plan a week of content #contentstrategy #creatortips",
    "duration": 42,
    "play": "https://cdn.example.com/play.mp4",
    "hdplay": "https://cdn.example.com/hd.mp4",
    "wmplay": "https://cdn.example.com/wm.mp4",
    "size": 1048576,
    "hd_size": 4194304,
    "wm_size": 2097152,
    "digg_count": 1500,
    "play_count": 90000,
    "comment_count": 120,
    "share_count": 45,
    "collect_count": 300,
    "author": {"unique_id": "somecreator", "nickname": "Some Creator"}
  }
}`

// TestTikTokAdapterMetadata verifies the resolver response is normalized
// into renditions, counters, and hashtags.
func TestTikTokAdapterMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("url"))
		_, _ = w.Write([]byte(tikwmBody))
	}))
	defer server.Close()

	adapter := platform.NewTikTokAdapter(server.URL, server.Client())
	metadata, err := adapter.Metadata(context.Background(), "7301234567890123456")

	assert.NoError(t, err)
	assert.Equal(t, model.PlatformTikTok, metadata.Platform)
	assert.Equal(t, "somecreator", metadata.Author)
	assert.Equal(t, 42, metadata.DurationSeconds)
	assert.Equal(t, int64(90000), metadata.Metrics.Views)
	assert.Equal(t, int64(1500), metadata.Metrics.Likes)
	assert.Equal(t, int64(300), metadata.Metrics.Saves)
	assert.Equal(t, []string{"#contentstrategy", "#creatortips"}, metadata.Hashtags)
	assert.Len(t, metadata.Renditions, 3)
	assert.Equal(t, int64(1048576), metadata.Renditions[0].SizeBytes)
}

// TestTikTokAdapterResolverError verifies a non-zero resolver code is
// treated as not-found even though HTTP status is 200.
func TestTikTokAdapterResolverError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": -1, "msg": "video unavailable"}`))
	}))
	defer server.Close()

	adapter := platform.NewTikTokAdapter(server.URL, server.Client())
	_, err := adapter.Metadata(context.Background(), "gone")

	assert.ErrorIs(t, err, model.ErrNotFoundOrPrivate)
}

// TestTikTokAdapterRateLimited verifies a 429 classifies as RateLimited.
func TestTikTokAdapterRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := platform.NewTikTokAdapter(server.URL, server.Client())
	_, err := adapter.Metadata(context.Background(), "any")

	assert.ErrorIs(t, err, model.ErrRateLimited)
}

// TestInstagramAdapterFallback verifies the adapter walks past a failing
// primary endpoint and normalizes the graphql shape from the fallback.
func TestInstagramAdapterFallback(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
  "graphql": {"shortcode_media": {
    "video_url": "https://cdn.example.com/reel.mp4",
    "owner": {"username": "ig.creator"},
    "edge_media_to_caption": {"edges": [{"node": {"text": "morning routine #wellness"}}]},
    "edge_media_preview_like": {"count": 2500},
    "video_view_count": 48000
  }}
}`))
	}))
	defer fallback.Close()

	adapter := platform.NewInstagramAdapter([]string{primary.URL, fallback.URL}, nil)
	metadata, err := adapter.Metadata(context.Background(), "Cx1abc2DEf3")

	assert.NoError(t, err)
	assert.Equal(t, "ig.creator", metadata.Author)
	assert.Equal(t, int64(2500), metadata.Metrics.Likes)
	assert.Equal(t, int64(48000), metadata.Metrics.Views)
	assert.Equal(t, []string{"#wellness"}, metadata.Hashtags)
	assert.Len(t, metadata.Renditions, 1)
	assert.Equal(t, "https://cdn.example.com/reel.mp4", metadata.Renditions[0].URL)
}

// TestInstagramAdapterItemsShape verifies the items/video_versions form is
// normalized with every video version as a rendition.
func TestInstagramAdapterItemsShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
  "items": [{
    "code": "Cx1abc2DEf3",
    "caption": {"text": "3 edits i use every day #editing #reels"},
    "user": {"username": "ig.creator"},
    "like_count": 900,
    "play_count": 30000,
    "comment_count": 55,
    "reshare_count": 20,
    "save_count": 210,
    "video_duration": 31.5,
    "video_versions": [
      {"url": "https://cdn.example.com/v720.mp4", "width": 720, "height": 1280, "type": 101},
      {"url": "https://cdn.example.com/v480.mp4", "width": 480, "height": 854, "type": 102}
    ]
  }]
}`))
	}))
	defer server.Close()

	adapter := platform.NewInstagramAdapter([]string{server.URL}, nil)
	metadata, err := adapter.Metadata(context.Background(), "Cx1abc2DEf3")

	assert.NoError(t, err)
	assert.Equal(t, int64(210), metadata.Metrics.Saves)
	assert.Equal(t, 31, metadata.DurationSeconds)
	assert.Len(t, metadata.Renditions, 2)
	assert.Equal(t, 720, metadata.Renditions[0].Width)
}

// TestInstagramAdapterAllEndpointsFail verifies the last classification
// error is surfaced when no endpoint answers usably.
func TestInstagramAdapterAllEndpointsFail(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	adapter := platform.NewInstagramAdapter([]string{notFound.URL}, nil)
	_, err := adapter.Metadata(context.Background(), "missing")

	assert.ErrorIs(t, err, model.ErrNotFoundOrPrivate)
}

// TestRegistryLookup verifies dispatch and the unsupported-platform error.
func TestRegistryLookup(t *testing.T) {
	tiktok := platform.NewTikTokAdapter("http://localhost", nil)
	registry := platform.NewRegistry(tiktok)

	found, err := registry.Lookup(model.PlatformTikTok)
	assert.NoError(t, err)
	assert.Equal(t, model.PlatformTikTok, found.Platform())

	_, err = registry.Lookup(model.PlatformUnknown)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
