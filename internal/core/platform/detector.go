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

// Package platform maps source URLs onto the social networks the pipeline
// can ingest from and wraps each network's metadata API behind a common
// Adapter interface. This file holds the Detector: a pure function from a
// raw URL to a platform tag plus the platform's opaque video identifier.
package platform

import (
	"regexp"
	"strings"

	"github.com/clipforge/social-ingest/internal/core/model"
)

var (
	tiktokVideoRe     = regexp.MustCompile(`/video/(\d+)`)
	tiktokShortRe     = regexp.MustCompile(`(?:vt|vm)\.tiktok\.com/([A-Za-z0-9]+)`)
	instagramPostRe   = regexp.MustCompile(`instagram\.com/(?:[A-Za-z0-9_.]+/)?(?:p|reels?)/([A-Za-z0-9_-]+)`)
	youtubeWatchRe    = regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{6,})`)
	youtubeShortURLRe = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{6,})`)
	youtubeShortsRe   = regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{6,})`)
)

// Detect classifies a raw URL and extracts the platform's video identifier.
// Detection is pure string matching with no I/O. An unrecognized URL yields
// PlatformUnknown with an empty identifier, which is a valid result, not an
// error; callers decide whether to reject it.
func Detect(rawURL string) (model.Platform, string) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return model.PlatformUnknown, ""
	}

	if strings.Contains(url, "tiktok.com") {
		if m := tiktokVideoRe.FindStringSubmatch(url); m != nil {
			return model.PlatformTikTok, m[1]
		}
		// Shortened share links carry an opaque token instead of the numeric
		// video id. The metadata API resolves either form.
		if m := tiktokShortRe.FindStringSubmatch(url); m != nil {
			return model.PlatformTikTok, m[1]
		}
		return model.PlatformUnknown, ""
	}

	if strings.Contains(url, "instagram.com") {
		if m := instagramPostRe.FindStringSubmatch(url); m != nil {
			return model.PlatformInstagram, m[1]
		}
		return model.PlatformUnknown, ""
	}

	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		if m := youtubeWatchRe.FindStringSubmatch(url); m != nil {
			return model.PlatformYouTube, m[1]
		}
		if m := youtubeShortsRe.FindStringSubmatch(url); m != nil {
			return model.PlatformYouTube, m[1]
		}
		if m := youtubeShortURLRe.FindStringSubmatch(url); m != nil {
			return model.PlatformYouTube, m[1]
		}
		return model.PlatformUnknown, ""
	}

	return model.PlatformUnknown, ""
}
