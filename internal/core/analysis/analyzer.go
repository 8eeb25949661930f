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

// This file holds the Analyzer, which drives the generative model over one
// video and assembles the content breakdown from three sub-calls:
// transcription, script decomposition, and metadata extraction.
//
// Logic Flow:
//  1. Each sub-call builds its prompt from a Go template populated with the
//     category allow-list, a few-shot example of the output schema, and the
//     platform metadata gathered at download time.
//  2. The three sub-calls run concurrently. Each asks the model for one JSON
//     object in the shared schema and parses the response tolerantly.
//  3. Sub-calls fail independently. A transport failure on the script or
//     metadata call degrades that section to placeholders; only a transport
//     failure on the transcription call fails the analysis as a whole, since
//     without a transcript there is nothing worth persisting.

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/clipforge/social-ingest/internal/cloud"
	"github.com/clipforge/social-ingest/internal/core/model"
	"google.golang.org/genai"
)

// Prompts holds the parsed templates for the three analysis sub-calls.
type Prompts struct {
	Transcript *template.Template
	Script     *template.Template
	Metadata   *template.Template
}

// Analyzer runs the three-part content analysis against a generative model.
type Analyzer struct {
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel
	parser                   *Parser
	prompts                  *Prompts
	categories               string
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
	geminiRetryCounter       metric.Int64Counter
}

// NewAnalyzer constructs an analyzer. categories is the rendered allow-list
// string injected into prompts (name - definition pairs).
func NewAnalyzer(
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel,
	parser *Parser,
	prompts *Prompts,
	categories string) *Analyzer {

	meter := otel.Meter("github.com/clipforge/social-ingest")
	out := &Analyzer{
		generativeAIModel: generativeAIModel,
		parser:            parser,
		prompts:           prompts,
		categories:        categories,
	}
	out.geminiInputTokenCounter, _ = meter.Int64Counter("analyzer.gemini.token.input")
	out.geminiOutputTokenCounter, _ = meter.Int64Counter("analyzer.gemini.token.output")
	out.geminiRetryCounter, _ = meter.Int64Counter("analyzer.gemini.retry")
	return out
}

// subResult carries one sub-call's parsed output back to the join point.
type subResult struct {
	name     string
	analysis *model.ContentAnalysis
	err      error
}

// Analyze runs the three sub-calls concurrently and joins their results.
// The returned error is non-nil only when the transcription sub-call could
// not reach the model at all.
func (a *Analyzer) Analyze(ctx context.Context, ref *model.VideoRef, metadata *model.SourceMetadata) (*model.ContentAnalysis, error) {
	results := make(chan subResult, 3)

	run := func(name string, prompt *template.Template) {
		analysis, err := a.runSubCall(ctx, name, prompt, ref, metadata)
		results <- subResult{name: name, analysis: analysis, err: err}
	}

	go run("transcript", a.prompts.Transcript)
	go run("script", a.prompts.Script)
	go run("metadata", a.prompts.Metadata)

	joined := make(map[string]subResult, 3)
	for i := 0; i < 3; i++ {
		r := <-results
		joined[r.name] = r
	}

	transcript := joined["transcript"]
	if transcript.err != nil {
		return nil, fmt.Errorf("transcription call failed: %w", transcript.err)
	}

	out := &model.ContentAnalysis{
		Transcript: transcript.analysis.Transcript,
		Degraded:   transcript.analysis.Degraded,
	}

	if script := joined["script"]; script.err == nil {
		out.Components = script.analysis.Components
		out.Degraded = out.Degraded || script.analysis.Degraded
	} else {
		slog.Warn("script sub-call failed, substituting placeholders", "error", script.err)
		fillComponentPlaceholders(&out.Components)
		out.Degraded = true
	}

	if meta := joined["metadata"]; meta.err == nil {
		out.Metadata = meta.analysis.Metadata
		out.Degraded = out.Degraded || meta.analysis.Degraded
	} else {
		slog.Warn("metadata sub-call failed, substituting known values", "error", meta.err)
		out.Metadata = model.ContentMetadata{
			Platform:    metadata.Platform,
			Author:      metadata.Author,
			Description: metadata.Description,
			Category:    a.parser.defaultCategory,
			Hashtags:    metadata.Hashtags,
		}
		out.Degraded = true
	}

	return out, nil
}

// runSubCall renders one prompt, sends it with the video, and parses the
// response tolerantly.
func (a *Analyzer) runSubCall(
	ctx context.Context,
	name string,
	prompt *template.Template,
	ref *model.VideoRef,
	metadata *model.SourceMetadata) (*model.ContentAnalysis, error) {

	var buffer bytes.Buffer
	if err := prompt.Execute(&buffer, a.promptParams(metadata)); err != nil {
		return nil, fmt.Errorf("rendering %s prompt: %w", name, err)
	}

	parts := []*genai.Part{{Text: buffer.String()}}
	if ref.PlaybackURL != "" {
		parts = append(parts, &genai.Part{FileData: &genai.FileData{
			FileURI:  ref.PlaybackURL,
			MIMEType: ref.MIMEType,
		}})
	} else {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: ref.MIMEType,
			Data:     ref.Bytes,
		}})
	}
	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	raw, err := cloud.GenerateMultiModalResponse(
		ctx,
		a.geminiInputTokenCounter,
		a.geminiOutputTokenCounter,
		a.geminiRetryCounter,
		0,
		a.generativeAIModel,
		contents)
	if err != nil {
		return nil, err
	}

	return a.parser.Parse(raw, metadata.Platform), nil
}

// promptParams builds the substitution map shared by the three templates.
func (a *Analyzer) promptParams(metadata *model.SourceMetadata) map[string]interface{} {
	params := make(map[string]interface{})
	params["CATEGORIES"] = a.categories
	params["PLATFORM"] = string(metadata.Platform)
	params["AUTHOR"] = metadata.Author
	params["DESCRIPTION"] = metadata.Description

	exampleBreakdown, _ := json.Marshal(model.GetExampleBreakdown())
	params["EXAMPLE_JSON"] = string(exampleBreakdown)
	return params
}
