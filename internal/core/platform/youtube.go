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

// YouTube adapter, built on the kkdai/youtube client. Unlike the other
// platforms there is no scraper API in front; the client resolves the video
// and its format list directly, and stream URLs are minted per format.

package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/kkdai/youtube/v2"
)

// YouTubeAdapter resolves YouTube videos through the youtube client library.
type YouTubeAdapter struct {
	client *youtube.Client
}

// NewYouTubeAdapter constructs the adapter with its own client instance.
func NewYouTubeAdapter() *YouTubeAdapter {
	return &YouTubeAdapter{client: &youtube.Client{}}
}

// Platform returns the YouTube platform tag.
func (a *YouTubeAdapter) Platform() model.Platform { return model.PlatformYouTube }

// Metadata resolves one YouTube video by id and normalizes its muxed video
// formats into renditions. Formats without a video track are skipped; the
// analysis stage needs picture and audio, not an audio-only stream.
func (a *YouTubeAdapter) Metadata(ctx context.Context, identifier string) (*model.SourceMetadata, error) {
	video, err := a.client.GetVideoContext(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("youtube video lookup: %v: %w", err, classifyYouTubeErr(err))
	}

	metadata := &model.SourceMetadata{
		Platform:        model.PlatformYouTube,
		Identifier:      video.ID,
		Author:          video.Author,
		Title:           video.Title,
		Description:     video.Description,
		DurationSeconds: int(video.Duration.Seconds()),
		Hashtags:        extractHashtags(video.Description),
		Metrics: model.EngagementMetrics{
			Views: int64(video.Views),
		},
	}

	for i := range video.Formats {
		format := &video.Formats[i]
		if !strings.HasPrefix(format.MimeType, "video/") {
			continue
		}
		// Prefer muxed formats; a video-only stream has no audio track for
		// the transcriber.
		if format.AudioQuality == "" {
			continue
		}
		streamURL, err := a.client.GetStreamURLContext(ctx, video, format)
		if err != nil {
			continue
		}
		mimeType := format.MimeType
		if idx := strings.Index(mimeType, ";"); idx > 0 {
			mimeType = mimeType[:idx]
		}
		metadata.Renditions = append(metadata.Renditions, model.Rendition{
			URL:       streamURL,
			MIMEType:  mimeType,
			SizeBytes: format.ContentLength,
			Width:     format.Width,
			Height:    format.Height,
			Label:     format.QualityLabel,
		})
	}

	return metadata, nil
}

// classifyYouTubeErr maps client library failures onto the shared taxonomy.
func classifyYouTubeErr(err error) error {
	var playbackErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &playbackErr) {
		return model.ErrNotFoundOrPrivate
	}
	if errors.Is(err, youtube.ErrVideoPrivate) || errors.Is(err, youtube.ErrInvalidCharactersInVideoID) ||
		errors.Is(err, youtube.ErrVideoIDMinLength) {
		return model.ErrNotFoundOrPrivate
	}
	return model.ErrServiceUnavailable
}
