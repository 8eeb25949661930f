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

// Package model defines the core data structures for the ingestion service.
// This file holds the persisted IngestionJob record, its status machine, and
// the structured analysis types attached to it on completion.
package model

import "time"

// Platform identifies the social network a source URL belongs to.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformUnknown   Platform = "unknown"
)

// Known reports whether the platform is one the pipeline can ingest from.
func (p Platform) Known() bool {
	return p == PlatformTikTok || p == PlatformInstagram || p == PlatformYouTube
}

// JobStatus is the lifecycle state of an IngestionJob.
type JobStatus string

const (
	StatusPending      JobStatus = "pending"
	StatusDownloading  JobStatus = "downloading"
	StatusUploading    JobStatus = "uploading"
	StatusTranscribing JobStatus = "transcribing"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// statusRank orders the forward path of the status machine. Failed sits
// outside the ordering and is handled separately.
var statusRank = map[JobStatus]int{
	StatusPending:      0,
	StatusDownloading:  1,
	StatusUploading:    2,
	StatusTranscribing: 3,
	StatusCompleted:    4,
}

// Terminal reports whether no further transitions are allowed from s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal status
// change. Forward transitions advance exactly one step along
// pending -> downloading -> uploading -> transcribing -> completed.
// Failed is reachable from any non-terminal state.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// EngagementMetrics holds the engagement counters reported by the source
// platform at ingestion time. Missing counters stay zero.
type EngagementMetrics struct {
	Likes    int64 `json:"likes"`
	Views    int64 `json:"views"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Saves    int64 `json:"saves"`
}

// ScriptComponents is the four-part decomposition of a video's script. Once
// set, all four fields are always present; extraction failures substitute
// explicit placeholder strings rather than leaving a field empty.
type ScriptComponents struct {
	Hook         string `json:"hook"`
	Bridge       string `json:"bridge"`
	Nugget       string `json:"nugget"`
	CallToAction string `json:"callToAction"`
}

// ContentMetadata describes the video's origin and classification.
type ContentMetadata struct {
	Platform    Platform `json:"platform"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Hashtags    []string `json:"hashtags"`
}

// ContentAnalysis is the full analyzer output persisted onto a job. The
// transcript, components, and metadata are written together as one unit.
// Degraded marks results assembled from fallback placeholders after the
// model's output could not be parsed.
type ContentAnalysis struct {
	Transcript string           `json:"transcript"`
	Components ScriptComponents `json:"components"`
	Metadata   ContentMetadata  `json:"contentMetadata"`
	Degraded   bool             `json:"degraded,omitempty"`
}

// IngestionJob is the persisted unit of work for one ingestion request.
// SourceURL and Platform are immutable after creation; every stage of the
// pipeline advances Status and rewrites UpdatedAt. Transcript, Components,
// and ContentMetadata are only ever written together, via SetAnalysis.
type IngestionJob struct {
	ID              string            `json:"id"`
	SourceURL       string            `json:"sourceUrl"`
	Title           string            `json:"title,omitempty"`
	Platform        Platform          `json:"platform"`
	Status          JobStatus         `json:"status"`
	CdnURL          string            `json:"cdnUrl,omitempty"`
	AssetID         string            `json:"assetId,omitempty"`
	Metrics         EngagementMetrics `json:"metrics"`
	Transcript      string            `json:"transcript,omitempty"`
	Components      *ScriptComponents `json:"components,omitempty"`
	ContentMetadata *ContentMetadata  `json:"contentMetadata,omitempty"`
	Degraded        bool              `json:"degraded,omitempty"`
	Error           string            `json:"error,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// SetAnalysis writes the analyzer output onto the job as a single unit.
func (j *IngestionJob) SetAnalysis(a *ContentAnalysis) {
	j.Transcript = a.Transcript
	components := a.Components
	j.Components = &components
	metadata := a.Metadata
	j.ContentMetadata = &metadata
	j.Degraded = a.Degraded
}
