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

// This file defines the Adapter interface each supported platform implements
// and the Registry that dispatches on the detected platform. Platform-specific
// behavior lives entirely behind the adapters; nothing downstream branches on
// platform names.

package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// Adapter is one platform's metadata capability: given the opaque video
// identifier the Detector extracted, it fetches and normalizes the video's
// metadata, including the candidate renditions and engagement counters.
type Adapter interface {
	// Platform returns the platform tag this adapter serves.
	Platform() model.Platform

	// Metadata fetches and normalizes the video's metadata. Errors wrap the
	// model sentinels so callers can classify upstream failures.
	Metadata(ctx context.Context, identifier string) (*model.SourceMetadata, error)
}

// Registry holds one Adapter per supported platform.
type Registry struct {
	adapters map[model.Platform]Adapter
}

// NewRegistry builds a registry from the given adapters. A duplicate
// registration for a platform keeps the last adapter passed in.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[model.Platform]Adapter)}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// Lookup returns the adapter for a platform, or ErrInvalidInput when the
// platform is unknown or unsupported.
func (r *Registry) Lookup(p model.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("no adapter for platform %q: %w", p, model.ErrInvalidInput)
	}
	return a, nil
}

// classifyStatus maps an upstream HTTP status to the shared error taxonomy.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return model.ErrRateLimited
	case status == http.StatusNotFound:
		return model.ErrNotFoundOrPrivate
	default:
		return model.ErrServiceUnavailable
	}
}
