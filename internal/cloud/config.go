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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and holds the shared clients for external
// services. This file centralizes every configurable parameter: GCP project
// settings, the hosting bucket, the Redis job store, platform resolver
// endpoints, AI model settings, prompt templates, and the content category
// allow-list.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings disables content blocking for every harm category.
// The pipeline ingests arbitrary public social video; blocked responses
// would otherwise surface as spurious analysis failures.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Storage holds the hosting bucket settings for the CDN relay.
type Storage struct {
	CdnBucket           string `toml:"cdn_bucket"`             // Bucket hosted assets are written to.
	SignedURLTTLSeconds int    `toml:"signed_url_ttl_seconds"` // Lifetime of signed playback URLs.
}

// JobStore holds the Redis connection settings for the persisted job
// documents.
type JobStore struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	KeyPrefix     string `toml:"key_prefix"`
}

// Downloader holds the time and size budgets for metadata and binary
// fetches.
type Downloader struct {
	MetadataTimeoutSeconds  int   `toml:"metadata_timeout_seconds"`   // Budget for one metadata API call.
	FetchTimeoutSeconds     int   `toml:"fetch_timeout_seconds"`      // Budget for one rendition download.
	MinPayloadBytes         int64 `toml:"min_payload_bytes"`          // Bodies below this are rejected as corrupt.
	MetadataCacheTTLSeconds int   `toml:"metadata_cache_ttl_seconds"` // Lifetime of cached metadata responses.
}

// Platforms holds the per-platform resolver endpoints. YouTube needs none;
// its client library resolves videos directly.
type Platforms struct {
	TikTok struct {
		Endpoint string `toml:"endpoint"`
	} `toml:"tiktok"`
	Instagram struct {
		Endpoints []string `toml:"endpoints"` // Ordered: primary first, then fallback scrapers.
	} `toml:"instagram"`
}

// PromptTemplates holds the text templates for the three analysis sub-calls.
type PromptTemplates struct {
	TranscriptPrompt string `toml:"transcript"`
	ScriptPrompt     string `toml:"script"`
	MetadataPrompt   string `toml:"metadata"`
}

// VertexAiLLMModel represents the configuration for a Vertex AI large
// language model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // Requests per second.
}

// TopicSubscription represents the configuration for a Pub/Sub topic
// subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`
	DeadLetterTopic  string `toml:"dead_letter_topic"`
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

// BigQueryDataSource holds the dataset and table the completed content
// breakdowns are exported to.
type BigQueryDataSource struct {
	DatasetName    string `toml:"dataset"`
	BreakdownTable string `toml:"breakdown_table"`
}

// Category defines one entry of the content category allow-list the parser
// validates model output against.
type Category struct {
	Name       string `toml:"name"`
	Definition string `toml:"definition"`
}

// Config is the root container for all application configuration.
type Config struct {
	Application struct {
		Name            string `toml:"name"`
		GoogleProjectId string `toml:"google_project_id"`
		GoogleLocation  string `toml:"location"`
		ThreadPoolSize  int    `toml:"thread_pool_size"` // Size of the background analysis worker pool.
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`
	JobStore           JobStore                     `toml:"job_store"`
	Downloader         Downloader                   `toml:"downloader"`
	Platforms          Platforms                    `toml:"platforms"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`
	Categories         map[string]Category          `toml:"categories"`
	DefaultCategory    string                       `toml:"default_category"`
}

// NewConfig creates a Config with its map fields initialized, so the TOML
// loader never writes into a nil map.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
		Categories:         make(map[string]Category),
	}
}
