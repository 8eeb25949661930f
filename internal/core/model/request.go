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

package model

// IngestRequest is the payload that starts an ingestion, arriving either as
// the POST body of the ingest endpoint or as a Pub/Sub trigger message.
type IngestRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}
