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

package cloud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/clipforge/social-ingest/internal/cloud"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// scriptedCaller fails the first failures calls and then answers with a
// canned response, counting every attempt.
type scriptedCaller struct {
	attempts int
	failures int
	text     string
}

func (c *scriptedCaller) GenerateContent(_ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	c.attempts++
	if c.attempts <= c.failures {
		return nil, errors.New("model overloaded")
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: c.text}},
			},
		}},
	}, nil
}

func newTestModel(caller *scriptedCaller) *cloud.QuotaAwareGenerativeAIModel {
	return cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, "test-model", caller, 100)
}

func testCounters(t *testing.T) (in, out, retry metric.Int64Counter) {
	t.Helper()
	meter := otel.Meter("wrappers-test")
	var err error
	in, err = meter.Int64Counter("test.input.tokens")
	assert.NoError(t, err)
	out, err = meter.Int64Counter("test.output.tokens")
	assert.NoError(t, err)
	retry, err = meter.Int64Counter("test.retries")
	assert.NoError(t, err)
	return in, out, retry
}

// A single GenerateContent call must make exactly one attempt against the
// model handle; retry policy belongs to GenerateMultiModalResponse alone.
func TestGenerateContentSingleAttempt(t *testing.T) {
	caller := &scriptedCaller{failures: 1}
	model := newTestModel(caller)

	_, err := model.GenerateContent(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, 1, caller.attempts)
}

func TestMultiModalResponseRetriesToBudget(t *testing.T) {
	caller := &scriptedCaller{failures: 100}
	model := newTestModel(caller)
	in, out, retry := testCounters(t)

	_, err := cloud.GenerateMultiModalResponse(context.Background(), in, out, retry, 0, model, nil)
	assert.Error(t, err)
	assert.Equal(t, cloud.MaxRetries+1, caller.attempts)
}

func TestMultiModalResponseRecoversWithinBudget(t *testing.T) {
	caller := &scriptedCaller{failures: 2, text: "```json{\"transcript\":\"hi\"}```"}
	model := newTestModel(caller)
	in, out, retry := testCounters(t)

	value, err := cloud.GenerateMultiModalResponse(context.Background(), in, out, retry, 0, model, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, caller.attempts)
	assert.Equal(t, `{"transcript":"hi"}`, value)
}
