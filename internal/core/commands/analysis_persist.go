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

// This file defines the command that writes the analysis results onto the
// job document and moves it to its terminal Completed state. The analysis
// fields land in one write so a poll never observes a half-written result.

package commands

import (
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/core/services"
)

// AnalysisPersist stores the content analysis and completes the job.
type AnalysisPersist struct {
	cor.BaseCommand
	jobService *services.JobService
}

// NewAnalysisPersist is the constructor for the AnalysisPersist command.
func NewAnalysisPersist(name string, jobService *services.JobService) *AnalysisPersist {
	return &AnalysisPersist{BaseCommand: *cor.NewBaseCommand(name), jobService: jobService}
}

// IsExecutable requires the job and the finished analysis.
func (c *AnalysisPersist) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetJobParamName()) != nil &&
		context.Get(GetAnalysisParamName()) != nil
}

// Execute applies the analysis to the job and transitions it to Completed.
func (c *AnalysisPersist) Execute(chainCtx cor.Context) {
	job := chainCtx.Get(GetJobParamName()).(*model.IngestionJob)
	contentAnalysis := chainCtx.Get(GetAnalysisParamName()).(*model.ContentAnalysis)

	job.SetAnalysis(contentAnalysis)
	if err := c.jobService.Transition(chainCtx.GetContext(), job, model.StatusCompleted); err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	chainCtx.Add(c.GetOutputParam(), job)
}
