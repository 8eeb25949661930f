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

// This file defines the entry command for Pub/Sub-triggered ingestions. The
// trigger message carries the same JSON body the HTTP endpoint accepts; this
// command parses it into an IngestRequest for the orchestrating command that
// follows it in the listener's chain.

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
)

// IngestTriggerToRequest parses a raw trigger message into an IngestRequest.
type IngestTriggerToRequest struct {
	cor.BaseCommand
}

// NewIngestTriggerToRequest is the constructor for the IngestTriggerToRequest
// command.
func NewIngestTriggerToRequest(name string) *IngestTriggerToRequest {
	return &IngestTriggerToRequest{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses the JSON trigger body from the input parameter.
func (c *IngestTriggerToRequest) Execute(chainCtx cor.Context) {
	in := chainCtx.Get(c.GetInputParam()).(string)

	var request model.IngestRequest
	if err := json.Unmarshal([]byte(in), &request); err != nil {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), fmt.Errorf("failed to unmarshal ingest trigger: %w", err))
		return
	}
	if request.URL == "" {
		c.GetErrorCounter().Add(chainCtx.GetContext(), 1)
		chainCtx.AddError(c.GetName(), fmt.Errorf("ingest trigger missing url: %w", model.ErrInvalidInput))
		return
	}

	c.GetSuccessCounter().Add(chainCtx.GetContext(), 1)
	chainCtx.Add(c.GetOutputParam(), &request)
}
