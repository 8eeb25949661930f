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

// This file implements the background half of an ingestion: the multimodal
// analysis, the final job write, and the BigQuery export. It runs on the
// worker pool after the HTTP response has already been sent.

package workflow

import (
	"cloud.google.com/go/bigquery"
	"github.com/clipforge/social-ingest/internal/core/commands"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/services"
)

// AnalysisWorkflow is the background analysis chain: analyze the video,
// persist the results onto the job, export the flattened breakdown.
type AnalysisWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

// Execute runs the analysis chain over the shared context.
func (w *AnalysisWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// NewAnalysisPipeline is the constructor for the AnalysisWorkflow. The
// bucket names the hosting bucket relayed assets live in. A nil BigQuery
// client disables the export step; local runs and tests have no warehouse.
func NewAnalysisPipeline(
	analyzer commands.ContentAnalyzer,
	bucket string,
	jobService *services.JobService,
	bigqueryClient *bigquery.Client,
	dataset string,
	table string,
) *AnalysisWorkflow {
	out := cor.NewBaseChain("analysis-pipeline")
	out.AddCommand(commands.NewContentAnalyze("analyze-content", analyzer, bucket))
	out.AddCommand(commands.NewAnalysisPersist("persist-analysis", jobService))
	if bigqueryClient != nil {
		out.AddCommand(commands.NewBreakdownExport("export-breakdown", bigqueryClient, dataset, table))
	}

	return &AnalysisWorkflow{
		BaseCommand: *cor.NewBaseCommand("analysis-workflow"),
		chain:       out,
	}
}
