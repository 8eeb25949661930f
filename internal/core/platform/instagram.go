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

// Instagram adapter. The primary metadata endpoint is less reliable than the
// TikTok resolver, so the adapter walks an ordered list of scrape endpoints
// and normalizes whichever response shape answers: the items/video_versions
// form, the graphql shortcode_media form, or the flat scraper form.

package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// instagramResponse is a superset of the known response shapes. Exactly one
// of the three forms is populated by any given endpoint.
type instagramResponse struct {
	// Items form (mobile API style).
	Items []struct {
		Code    string `json:"code"`
		Caption struct {
			Text string `json:"text"`
		} `json:"caption"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		LikeCount     int64   `json:"like_count"`
		PlayCount     int64   `json:"play_count"`
		CommentCount  int64   `json:"comment_count"`
		ReshareCount  int64   `json:"reshare_count"`
		SaveCount     int64   `json:"save_count"`
		VideoDuration float64 `json:"video_duration"`
		VideoVersions []struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
			Type   int    `json:"type"`
		} `json:"video_versions"`
	} `json:"items"`

	// Graphql form (web embed style).
	Graphql struct {
		ShortcodeMedia struct {
			VideoURL string `json:"video_url"`
			Owner    struct {
				Username string `json:"username"`
			} `json:"owner"`
			EdgeMediaToCaption struct {
				Edges []struct {
					Node struct {
						Text string `json:"text"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"edge_media_to_caption"`
			EdgeMediaPreviewLike struct {
				Count int64 `json:"count"`
			} `json:"edge_media_preview_like"`
			VideoViewCount int64 `json:"video_view_count"`
		} `json:"shortcode_media"`
	} `json:"graphql"`

	// Flat scraper form.
	VideoURL    string `json:"videoUrl"`
	VideoURLAlt string `json:"video_url"`
	DownloadURL string `json:"downloadUrl"`
	Author      string `json:"author"`
	Caption     string `json:"caption"`
	Likes       int64  `json:"likes"`
	Views       int64  `json:"views"`
	Comments    int64  `json:"comments"`
}

// InstagramAdapter resolves Instagram posts and reels through an ordered
// list of scrape endpoints, stopping at the first that yields a usable
// rendition list.
type InstagramAdapter struct {
	endpoints []string
	client    *http.Client
}

// NewInstagramAdapter constructs an adapter over the given endpoints, tried
// in order. Each endpoint receives the shortcode as a query parameter.
func NewInstagramAdapter(endpoints []string, client *http.Client) *InstagramAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &InstagramAdapter{endpoints: endpoints, client: client}
}

// Platform returns the Instagram platform tag.
func (a *InstagramAdapter) Platform() model.Platform { return model.PlatformInstagram }

// Metadata walks the endpoint list and returns the first normalized result
// with at least one rendition. The last classification error is returned
// when every endpoint fails, so a 429 from the final endpoint surfaces as
// RateLimited rather than a generic failure.
func (a *InstagramAdapter) Metadata(ctx context.Context, identifier string) (*model.SourceMetadata, error) {
	if len(a.endpoints) == 0 {
		return nil, fmt.Errorf("no instagram endpoints configured: %w", model.ErrServiceUnavailable)
	}

	var lastErr error
	for _, endpoint := range a.endpoints {
		metadata, err := a.fetchOne(ctx, endpoint, identifier)
		if err != nil {
			lastErr = err
			continue
		}
		if len(metadata.Renditions) == 0 {
			lastErr = fmt.Errorf("instagram endpoint returned no renditions: %w", model.ErrNotFoundOrPrivate)
			continue
		}
		return metadata, nil
	}
	return nil, lastErr
}

func (a *InstagramAdapter) fetchOne(ctx context.Context, endpoint string, shortcode string) (*model.SourceMetadata, error) {
	reqURL := fmt.Sprintf("%s?shortcode=%s", endpoint, url.QueryEscape(shortcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram metadata request: %w", model.ErrServiceUnavailable)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram metadata fetch: %v: %w", err, model.ErrServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram metadata status %d: %w", resp.StatusCode, classifyStatus(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram metadata read: %v: %w", err, model.ErrServiceUnavailable)
	}

	var payload instagramResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("instagram metadata decode: %v: %w", err, model.ErrServiceUnavailable)
	}

	return a.normalize(shortcode, &payload), nil
}

// normalize flattens whichever response form answered into SourceMetadata.
func (a *InstagramAdapter) normalize(shortcode string, payload *instagramResponse) *model.SourceMetadata {
	metadata := &model.SourceMetadata{
		Platform:   model.PlatformInstagram,
		Identifier: shortcode,
	}

	if len(payload.Items) > 0 {
		item := payload.Items[0]
		metadata.Author = item.User.Username
		metadata.Description = item.Caption.Text
		metadata.Hashtags = extractHashtags(item.Caption.Text)
		metadata.DurationSeconds = int(item.VideoDuration)
		metadata.Metrics = model.EngagementMetrics{
			Likes:    item.LikeCount,
			Views:    item.PlayCount,
			Comments: item.CommentCount,
			Shares:   item.ReshareCount,
			Saves:    item.SaveCount,
		}
		for _, v := range item.VideoVersions {
			if v.URL == "" {
				continue
			}
			metadata.Renditions = append(metadata.Renditions, model.Rendition{
				URL:      v.URL,
				MIMEType: "video/mp4",
				Width:    v.Width,
				Height:   v.Height,
				Label:    fmt.Sprintf("type_%d", v.Type),
			})
		}
		return metadata
	}

	if sm := payload.Graphql.ShortcodeMedia; sm.VideoURL != "" {
		metadata.Author = sm.Owner.Username
		if len(sm.EdgeMediaToCaption.Edges) > 0 {
			metadata.Description = sm.EdgeMediaToCaption.Edges[0].Node.Text
			metadata.Hashtags = extractHashtags(metadata.Description)
		}
		metadata.Metrics = model.EngagementMetrics{
			Likes: sm.EdgeMediaPreviewLike.Count,
			Views: sm.VideoViewCount,
		}
		metadata.Renditions = append(metadata.Renditions, model.Rendition{
			URL: sm.VideoURL, MIMEType: "video/mp4", Label: "graphql",
		})
		return metadata
	}

	// Flat scraper form: several field names for the same thing, first
	// non-empty wins.
	videoURL := payload.VideoURL
	if videoURL == "" {
		videoURL = payload.VideoURLAlt
	}
	if videoURL == "" {
		videoURL = payload.DownloadURL
	}
	metadata.Author = payload.Author
	metadata.Description = payload.Caption
	metadata.Hashtags = extractHashtags(payload.Caption)
	metadata.Metrics = model.EngagementMetrics{
		Likes:    payload.Likes,
		Views:    payload.Views,
		Comments: payload.Comments,
	}
	if videoURL != "" {
		metadata.Renditions = append(metadata.Renditions, model.Rendition{
			URL: videoURL, MIMEType: "video/mp4", Label: "scraper",
		})
	}
	return metadata
}
