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

// This file contains the transient data structures passed between pipeline
// commands in memory. None of these are persisted in this form; they are the
// intermediate containers a job's data moves through between the platform
// adapters, the downloader, the CDN relay, and the analyzer.

package model

// Rendition is one encoded variant of a source video as advertised by a
// platform's metadata API. SizeBytes is zero when the platform does not
// report a size.
type Rendition struct {
	URL       string
	MIMEType  string
	SizeBytes int64
	Width     int
	Height    int
	Label     string
}

// SourceMetadata is the normalized metadata payload for one video,
// regardless of which platform or fallback endpoint produced it.
type SourceMetadata struct {
	Platform        Platform
	Identifier      string
	Author          string
	Title           string
	Description     string
	DurationSeconds int
	Metrics         EngagementMetrics
	Hashtags        []string
	Renditions      []Rendition
}

// MediaPayload is a downloaded video body plus enough shape information for
// validation and upload. SourceURL is the rendition URL the body came from;
// the relay prefers re-streaming it over re-uploading the buffered bytes.
type MediaPayload struct {
	Bytes     []byte
	MIMEType  string
	Size      int64
	Filename  string
	SourceURL string
}

// VideoRef points the analyzer at a video either by hosted playback URL or,
// when the CDN stage degraded, by inline bytes. Exactly one of PlaybackURL
// or Bytes is set.
type VideoRef struct {
	PlaybackURL string
	MIMEType    string
	Bytes       []byte
}

// ContentBreakdown is the wire schema the generative model is instructed to
// return: one JSON object holding the transcript, the four script
// components, and the content metadata. Field names follow the prompt
// contract, not the persisted job shape.
type ContentBreakdown struct {
	Transcript string `json:"transcript"`
	Components struct {
		Hook   string `json:"hook"`
		Bridge string `json:"bridge"`
		Nugget string `json:"nugget"`
		Wta    string `json:"wta"`
	} `json:"components"`
	ContentMetadata struct {
		Platform    string   `json:"platform"`
		Author      string   `json:"author"`
		Description string   `json:"description"`
		Source      string   `json:"source"`
		Hashtags    []string `json:"hashtags"`
	} `json:"contentMetadata"`
}
