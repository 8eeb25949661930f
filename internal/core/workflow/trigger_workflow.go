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

// This file implements the Pub/Sub entry point. The trigger chain parses the
// message body into an IngestRequest and hands it to the Orchestrator, so a
// queued URL follows exactly the same path as one POSTed to the API. The
// listener acknowledges the message only when this chain records no errors.

package workflow

import (
	"fmt"

	"github.com/clipforge/social-ingest/internal/core/commands"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
)

// TriggerWorkflow is the chain attached to the ingest trigger subscription.
type TriggerWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

// Execute runs the trigger chain over the shared context.
func (w *TriggerWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// NewIngestTriggerPipeline is the constructor for the TriggerWorkflow.
func NewIngestTriggerPipeline(orchestrator *Orchestrator) *TriggerWorkflow {
	out := cor.NewBaseChain("ingest-trigger-pipeline")
	out.AddCommand(commands.NewIngestTriggerToRequest("parse-ingest-trigger"))
	out.AddCommand(newOrchestrate("orchestrate-ingest", orchestrator))

	return &TriggerWorkflow{
		BaseCommand: *cor.NewBaseCommand("ingest-trigger-workflow"),
		chain:       out,
	}
}

// orchestrate adapts the Orchestrator to the Command interface so it can
// terminate the trigger chain.
type orchestrate struct {
	cor.BaseCommand
	orchestrator *Orchestrator
}

func newOrchestrate(name string, orchestrator *Orchestrator) *orchestrate {
	return &orchestrate{BaseCommand: *cor.NewBaseCommand(name), orchestrator: orchestrator}
}

// Execute starts an ingestion for the parsed request.
func (c *orchestrate) Execute(chainCtx cor.Context) {
	request := chainCtx.Get(c.GetInputParam()).(*model.IngestRequest)

	job, err := c.orchestrator.Ingest(chainCtx.GetContext(), request)
	if err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), fmt.Errorf("triggered ingest of %s: %w", request.URL, err))
		return
	}

	c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	chainCtx.Add(c.GetOutputParam(), job)
}
