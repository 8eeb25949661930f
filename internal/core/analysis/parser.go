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

// Package analysis turns raw generative-model output into structured content
// breakdowns. This file holds the tolerant parser: a fixed fallback ladder
// (fence strip, brace slice, JSON parse, field validation, placeholder
// substitution) that always yields a usable result and never returns an
// error. The model is an untrusted text generator; every categorical field
// it emits is validated against an allow-list before being persisted.
package analysis

import (
	"encoding/json"
	"strings"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// Placeholder strings substituted when a script component cannot be
// extracted. All four components are always present once set.
const (
	PlaceholderHook         = "unable to extract hook"
	PlaceholderBridge       = "unable to extract bridge"
	PlaceholderNugget       = "unable to extract nugget"
	PlaceholderCallToAction = "unable to extract call to action"
)

// Parser validates model output against the configured category allow-list.
type Parser struct {
	categories      map[string]bool
	defaultCategory string
}

// NewParser constructs a parser. Categories are matched case-insensitively;
// an invalid or missing source falls back to defaultCategory.
func NewParser(categories []string, defaultCategory string) *Parser {
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return &Parser{categories: allowed, defaultCategory: defaultCategory}
}

// StripFences removes a wrapping markdown code fence, with or without a
// language tag, leaving unfenced text untouched.
func StripFences(raw string) string {
	out := strings.TrimSpace(raw)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// BraceSlice cuts the text down to the span between the first '{' and the
// last '}', discarding any prose the model wrapped around the object.
// Returns the input unchanged when no such span exists.
func BraceSlice(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

// Parse runs the full fallback ladder over a raw model response. It never
// fails: when no JSON object can be recovered, the entire raw text becomes
// the transcript, every component gets its placeholder, and the result is
// marked degraded. knownPlatform is the platform resolved at detection time,
// used whenever the model's own platform guess is invalid.
func (p *Parser) Parse(raw string, knownPlatform model.Platform) *model.ContentAnalysis {
	candidate := BraceSlice(StripFences(raw))

	var breakdown model.ContentBreakdown
	if err := json.Unmarshal([]byte(candidate), &breakdown); err != nil {
		return p.fallback(raw, knownPlatform)
	}

	out := &model.ContentAnalysis{
		Transcript: strings.TrimSpace(breakdown.Transcript),
		Components: model.ScriptComponents{
			Hook:         strings.TrimSpace(breakdown.Components.Hook),
			Bridge:       strings.TrimSpace(breakdown.Components.Bridge),
			Nugget:       strings.TrimSpace(breakdown.Components.Nugget),
			CallToAction: strings.TrimSpace(breakdown.Components.Wta),
		},
		Metadata: model.ContentMetadata{
			Platform:    p.validatePlatform(breakdown.ContentMetadata.Platform, knownPlatform),
			Author:      strings.TrimSpace(breakdown.ContentMetadata.Author),
			Description: strings.TrimSpace(breakdown.ContentMetadata.Description),
			Category:    p.validateCategory(breakdown.ContentMetadata.Source),
			Hashtags:    breakdown.ContentMetadata.Hashtags,
		},
	}
	fillComponentPlaceholders(&out.Components)
	return out
}

// fallback is the bottom rung: raw text as transcript, placeholders
// everywhere else.
func (p *Parser) fallback(raw string, knownPlatform model.Platform) *model.ContentAnalysis {
	out := &model.ContentAnalysis{
		Transcript: strings.TrimSpace(raw),
		Degraded:   true,
		Metadata: model.ContentMetadata{
			Platform: knownPlatform,
			Category: p.defaultCategory,
		},
	}
	fillComponentPlaceholders(&out.Components)
	return out
}

// validateCategory enforces the allow-list, substituting the configured
// default for anything the model invented.
func (p *Parser) validateCategory(source string) string {
	normalized := strings.ToLower(strings.TrimSpace(source))
	if p.categories[normalized] {
		return normalized
	}
	return p.defaultCategory
}

// validatePlatform keeps the model's platform claim only when it names a
// platform the pipeline knows; otherwise the detection-time value wins.
func (p *Parser) validatePlatform(claimed string, known model.Platform) model.Platform {
	candidate := model.Platform(strings.ToLower(strings.TrimSpace(claimed)))
	if candidate.Known() {
		return candidate
	}
	return known
}

func fillComponentPlaceholders(c *model.ScriptComponents) {
	if c.Hook == "" {
		c.Hook = PlaceholderHook
	}
	if c.Bridge == "" {
		c.Bridge = PlaceholderBridge
	}
	if c.Nugget == "" {
		c.Nugget = PlaceholderNugget
	}
	if c.CallToAction == "" {
		c.CallToAction = PlaceholderCallToAction
	}
}
