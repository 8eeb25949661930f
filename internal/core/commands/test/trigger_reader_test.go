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

package commands_test

import (
	"context"
	"testing"

	"github.com/clipforge/social-ingest/internal/core/commands"
	"github.com/clipforge/social-ingest/internal/core/cor"
	"github.com/clipforge/social-ingest/internal/core/model"
	test "github.com/clipforge/social-ingest/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func newChainContext(body string) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, body)
	return chainCtx
}

func TestTriggerReaderParsesMessage(t *testing.T) {
	cmd := commands.NewIngestTriggerToRequest("parse-ingest-trigger")
	chainCtx := newChainContext(test.GetTestIngestTriggerText())

	assert.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())

	request := chainCtx.Get(cmd.GetOutputParam()).(*model.IngestRequest)
	assert.Equal(t, "https://www.tiktok.com/@maker/video/7299881234567890123", request.URL)
	assert.Equal(t, "How I edit 30 second tutorials", request.Title)
}

func TestTriggerReaderRejectsMalformedJSON(t *testing.T) {
	cmd := commands.NewIngestTriggerToRequest("parse-ingest-trigger")
	chainCtx := newChainContext(`{"url": `)

	cmd.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(cmd.GetOutputParam()))
}

func TestTriggerReaderRejectsMissingURL(t *testing.T) {
	cmd := commands.NewIngestTriggerToRequest("parse-ingest-trigger")
	chainCtx := newChainContext(`{"title":"no url here"}`)

	cmd.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
	for _, err := range chainCtx.GetErrors() {
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	}
}
