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

// Application wiring: configuration loading and construction of every
// pipeline component, from the platform adapters up to the orchestrator and
// its worker pool.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/clipforge/social-ingest/internal/cloud"
	"github.com/clipforge/social-ingest/internal/core/analysis"
	"github.com/clipforge/social-ingest/internal/core/cdnrelay"
	"github.com/clipforge/social-ingest/internal/core/download"
	"github.com/clipforge/social-ingest/internal/core/platform"
	"github.com/clipforge/social-ingest/internal/core/services"
	"github.com/clipforge/social-ingest/internal/core/workflow"
	"github.com/clipforge/social-ingest/internal/worker"
)

// analyzerModelKey names the agent model config entry the analyzer uses.
const analyzerModelKey = "analyzer"

// StateManager holds the shared components of the running server.
type StateManager struct {
	config       *cloud.Config
	cloud        *cloud.ServiceClients
	jobService   *services.JobService
	relay        *cdnrelay.Relay
	orchestrator *workflow.Orchestrator
	pool         *worker.Pool
}

var state = &StateManager{}

func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState constructs the full pipeline and starts the background pieces:
// the analysis worker pool and the Pub/Sub trigger listeners.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	jobStore := services.NewRedisJobStore(cloudClients.RedisClient, config.JobStore.KeyPrefix)
	state.jobService = services.NewJobService(jobStore)

	registry := platform.NewRegistry(
		platform.NewTikTokAdapter(config.Platforms.TikTok.Endpoint, nil),
		platform.NewInstagramAdapter(config.Platforms.Instagram.Endpoints, nil),
		platform.NewYouTubeAdapter(),
	)
	cache := platform.NewMetadataCache(
		time.Duration(config.Downloader.MetadataCacheTTLSeconds)*time.Second, nil)
	fetcher := download.NewFetcher(nil,
		time.Duration(config.Downloader.FetchTimeoutSeconds)*time.Second,
		config.Downloader.MinPayloadBytes)

	state.relay = cdnrelay.NewRelay(cloudClients.StorageClient, nil, config.Storage.CdnBucket)

	parser := analysis.NewParser(categoryNames(config), config.DefaultCategory)
	analyzer := analysis.NewAnalyzer(
		cloudClients.AgentModels[analyzerModelKey],
		parser,
		buildPrompts(config),
		renderCategories(config))

	ingest := workflow.NewIngestPipeline(
		registry, cache, fetcher, state.relay, state.jobService,
		time.Duration(config.Downloader.MetadataTimeoutSeconds)*time.Second)
	analysisPipeline := workflow.NewAnalysisPipeline(
		analyzer,
		config.Storage.CdnBucket,
		state.jobService,
		cloudClients.BigQueryClient,
		config.BigQueryDataSource.DatasetName,
		config.BigQueryDataSource.BreakdownTable)

	pool := worker.NewPool(
		config.Application.ThreadPoolSize,
		config.Application.ThreadPoolSize*4,
		func(ctx context.Context, task worker.Task) {
			state.orchestrator.RunAnalysis(ctx, task)
		})
	state.pool = pool
	state.orchestrator = workflow.NewOrchestrator(state.jobService, ingest, analysisPipeline, pool)
	pool.Start(ctx)

	SetupListeners(ctx, cloudClients, state.orchestrator)
}

// SetupListeners attaches the trigger pipeline to every configured
// subscription and starts receiving.
func SetupListeners(ctx context.Context, cloudClients *cloud.ServiceClients, orchestrator *workflow.Orchestrator) {
	trigger := workflow.NewIngestTriggerPipeline(orchestrator)
	for name, listener := range cloudClients.PubSubListeners {
		listener.SetCommand(trigger)
		listener.Listen(ctx)
		slog.Info("listening for ingest triggers", "subscription", name)
	}
}

// buildPrompts parses the three analysis prompt templates from the
// configuration. The server cannot run with a broken template.
func buildPrompts(config *cloud.Config) *analysis.Prompts {
	return &analysis.Prompts{
		Transcript: template.Must(template.New("transcript-template").Parse(config.PromptTemplates.TranscriptPrompt)),
		Script:     template.Must(template.New("script-template").Parse(config.PromptTemplates.ScriptPrompt)),
		Metadata:   template.Must(template.New("metadata-template").Parse(config.PromptTemplates.MetadataPrompt)),
	}
}

// categoryNames returns the configured category allow-list, sorted for
// stable prompt output.
func categoryNames(config *cloud.Config) []string {
	names := make([]string, 0, len(config.Categories))
	for _, c := range config.Categories {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// renderCategories formats the allow-list with definitions for prompt
// injection, one "name - definition" pair per line.
func renderCategories(config *cloud.Config) string {
	keys := make([]string, 0, len(config.Categories))
	for k := range config.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		c := config.Categories[k]
		b.WriteString(c.Name)
		b.WriteString(" - ")
		b.WriteString(c.Definition)
		b.WriteString("\n")
	}
	return b.String()
}
