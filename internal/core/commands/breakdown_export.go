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

// This file defines the command that streams a flattened copy of each
// completed breakdown into BigQuery for offline analysis. The export runs
// after the job is already Completed, so insert failures are logged and
// absorbed rather than surfaced as chain errors.

package commands

import (
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
)

// breakdownRow is the flattened BigQuery representation of one completed
// ingestion.
type breakdownRow struct {
	JobID        string    `bigquery:"job_id"`
	SourceURL    string    `bigquery:"source_url"`
	Platform     string    `bigquery:"platform"`
	Author       string    `bigquery:"author"`
	Title        string    `bigquery:"title"`
	Category     string    `bigquery:"category"`
	Transcript   string    `bigquery:"transcript"`
	Hook         string    `bigquery:"hook"`
	Bridge       string    `bigquery:"bridge"`
	Nugget       string    `bigquery:"nugget"`
	CallToAction string    `bigquery:"call_to_action"`
	Likes        int64     `bigquery:"likes"`
	Views        int64     `bigquery:"views"`
	Comments     int64     `bigquery:"comments"`
	Shares       int64     `bigquery:"shares"`
	Saves        int64     `bigquery:"saves"`
	Degraded     bool      `bigquery:"degraded"`
	IngestedAt   time.Time `bigquery:"ingested_at"`
}

// BreakdownExport streams completed breakdowns into a BigQuery table.
type BreakdownExport struct {
	cor.BaseCommand
	client  *bigquery.Client
	dataset string
	table   string
}

// NewBreakdownExport is the constructor for the BreakdownExport command.
func NewBreakdownExport(name string, client *bigquery.Client, dataset string, table string) *BreakdownExport {
	return &BreakdownExport{BaseCommand: *cor.NewBaseCommand(name), client: client, dataset: dataset, table: table}
}

// IsExecutable requires a completed job with its analysis attached.
func (c *BreakdownExport) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetJobParamName()) != nil &&
		context.Get(GetAnalysisParamName()) != nil
}

// Execute inserts one row for the job. Failures never affect the job state.
func (c *BreakdownExport) Execute(chainCtx cor.Context) {
	job := chainCtx.Get(GetJobParamName()).(*model.IngestionJob)
	contentAnalysis := chainCtx.Get(GetAnalysisParamName()).(*model.ContentAnalysis)

	row := &breakdownRow{
		JobID:        job.ID,
		SourceURL:    job.SourceURL,
		Platform:     string(job.Platform),
		Author:       contentAnalysis.Metadata.Author,
		Title:        job.Title,
		Category:     contentAnalysis.Metadata.Category,
		Transcript:   contentAnalysis.Transcript,
		Hook:         contentAnalysis.Components.Hook,
		Bridge:       contentAnalysis.Components.Bridge,
		Nugget:       contentAnalysis.Components.Nugget,
		CallToAction: contentAnalysis.Components.CallToAction,
		Likes:        job.Metrics.Likes,
		Views:        job.Metrics.Views,
		Comments:     job.Metrics.Comments,
		Shares:       job.Metrics.Shares,
		Saves:        job.Metrics.Saves,
		Degraded:     contentAnalysis.Degraded,
		IngestedAt:   job.CreatedAt,
	}

	inserter := c.client.Dataset(c.dataset).Table(c.table).Inserter()
	if err := inserter.Put(chainCtx.GetContext(), row); err != nil {
		slog.Warn("breakdown export failed", "job_id", job.ID, "error", err)
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
	} else {
		c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	}

	chainCtx.Add(c.GetOutputParam(), job)
}
