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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the ingestion
// pipeline. This file defines the well-known context parameter names the
// commands use to share state beyond the default chain piping.
package commands

// GetJobParamName returns the context key holding the *model.IngestionJob
// being processed.
func GetJobParamName() string {
	return "__JOB__"
}

// GetSourceParamName returns the context key holding the platform-native
// identifier extracted from the source URL.
func GetSourceParamName() string {
	return "__SOURCE__"
}

// GetMetadataParamName returns the context key holding the resolved
// *model.SourceMetadata.
func GetMetadataParamName() string {
	return "__MEDIA_METADATA__"
}

// GetPayloadParamName returns the context key holding the downloaded
// *model.MediaPayload.
func GetPayloadParamName() string {
	return "__MEDIA_PAYLOAD__"
}

// GetAnalysisParamName returns the context key holding the
// *model.ContentAnalysis produced by the analyzer.
func GetAnalysisParamName() string {
	return "__CONTENT_ANALYSIS__"
}

// GetVideoRefParamName returns the context key holding the *model.VideoRef
// the analyzer reads the video from.
func GetVideoRefParamName() string {
	return "__VIDEO_REF__"
}
