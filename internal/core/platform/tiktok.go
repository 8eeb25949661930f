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

// TikTok adapter. Wraps a tikwm-style resolver API that takes a video URL or
// id and returns playback variants plus engagement counters in one response.

package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// tiktokResponse mirrors the resolver API envelope. A non-zero code means
// the lookup failed even when HTTP status is 200.
type tiktokResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Duration     int    `json:"duration"`
		Play         string `json:"play"`
		Wmplay       string `json:"wmplay"`
		Hdplay       string `json:"hdplay"`
		Size         int64  `json:"size"`
		WmSize       int64  `json:"wm_size"`
		HdSize       int64  `json:"hd_size"`
		DiggCount    int64  `json:"digg_count"`
		PlayCount    int64  `json:"play_count"`
		CommentCount int64  `json:"comment_count"`
		ShareCount   int64  `json:"share_count"`
		CollectCount int64  `json:"collect_count"`
		Author       struct {
			UniqueID string `json:"unique_id"`
			Nickname string `json:"nickname"`
		} `json:"author"`
	} `json:"data"`
}

// TikTokAdapter resolves TikTok videos through a configured metadata
// endpoint.
type TikTokAdapter struct {
	endpoint string
	client   *http.Client
}

// NewTikTokAdapter constructs an adapter against the given resolver
// endpoint, e.g. "https://www.tikwm.com/api/".
func NewTikTokAdapter(endpoint string, client *http.Client) *TikTokAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &TikTokAdapter{endpoint: endpoint, client: client}
}

// Platform returns the TikTok platform tag.
func (a *TikTokAdapter) Platform() model.Platform { return model.PlatformTikTok }

// Metadata resolves one TikTok video. The resolver accepts either the
// canonical video URL or the bare numeric id.
func (a *TikTokAdapter) Metadata(ctx context.Context, identifier string) (*model.SourceMetadata, error) {
	reqURL := fmt.Sprintf("%s?url=%s&hd=1", a.endpoint, url.QueryEscape(identifier))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("tiktok metadata request: %w", model.ErrServiceUnavailable)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tiktok metadata fetch: %v: %w", err, model.ErrServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiktok metadata status %d: %w", resp.StatusCode, classifyStatus(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tiktok metadata read: %v: %w", err, model.ErrServiceUnavailable)
	}

	var payload tiktokResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("tiktok metadata decode: %v: %w", err, model.ErrServiceUnavailable)
	}
	if payload.Code != 0 {
		return nil, fmt.Errorf("tiktok resolver error %d (%s): %w", payload.Code, payload.Msg, model.ErrNotFoundOrPrivate)
	}

	d := payload.Data
	metadata := &model.SourceMetadata{
		Platform:        model.PlatformTikTok,
		Identifier:      identifier,
		Author:          d.Author.UniqueID,
		Title:           d.Title,
		Description:     d.Title,
		DurationSeconds: d.Duration,
		Hashtags:        extractHashtags(d.Title),
		Metrics: model.EngagementMetrics{
			Likes:    d.DiggCount,
			Views:    d.PlayCount,
			Comments: d.CommentCount,
			Shares:   d.ShareCount,
			Saves:    d.CollectCount,
		},
	}

	// The resolver offers up to three variants: clean, HD, and watermarked.
	// All are mp4; sizes let the downloader order them smallest-first.
	if d.Play != "" {
		metadata.Renditions = append(metadata.Renditions, model.Rendition{
			URL: d.Play, MIMEType: "video/mp4", SizeBytes: d.Size, Label: "play",
		})
	}
	if d.Hdplay != "" {
		metadata.Renditions = append(metadata.Renditions, model.Rendition{
			URL: d.Hdplay, MIMEType: "video/mp4", SizeBytes: d.HdSize, Label: "hdplay",
		})
	}
	if d.Wmplay != "" {
		metadata.Renditions = append(metadata.Renditions, model.Rendition{
			URL: d.Wmplay, MIMEType: "video/mp4", SizeBytes: d.WmSize, Label: "wmplay",
		})
	}

	return metadata, nil
}

// extractHashtags pulls #tag tokens out of a caption.
func extractHashtags(caption string) []string {
	var tags []string
	for _, token := range strings.Fields(caption) {
		if strings.HasPrefix(token, "#") && len(token) > 1 {
			tags = append(tags, token)
		}
	}
	return tags
}
