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

// This file implements a decorator around the Generative AI model handle
// that adds rate limiting on top of the raw client. Vertex AI enforces
// per-minute request quotas; the limiter keeps the pipeline under them
// instead of burning quota on rejected calls. Retry policy lives in
// GenerateMultiModalResponse, which owns the single retry loop.

package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ModelCaller is the slice of the genai client the wrapper needs. Satisfied
// by *genai.Models.
type ModelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel wraps a model handle with its generation
// config and a token-bucket rate limiter.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             ModelCaller
	RateLimit               *rate.Limiter
}

// NewQuotaAwareModel wraps a model configuration with a limiter allowing
// requestsPerSecond calls, replenished one token per second.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle ModelCaller, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent runs exactly one generation attempt under the rate
// limiter, blocking until a token is available or the context ends. Callers
// that want retries wrap this call; stacking a second retry loop here would
// multiply attempts.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}
