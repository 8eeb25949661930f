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

// Package download fetches the binary for one video given its normalized
// metadata. Renditions are attempted smallest-first with a bounded per-
// candidate timeout; the first body that passes size and type validation
// wins. Latency beats fidelity here: the analysis stage needs watchable
// content, not maximum resolution.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/h2non/filetype"
)

// DefaultMinPayloadBytes rejects near-empty bodies as corrupt. Platform
// error pages and expired stream URLs tend to come back as a few hundred
// bytes of HTML.
const DefaultMinPayloadBytes = 10 * 1024

// Fetcher downloads rendition bodies with per-candidate timeouts.
type Fetcher struct {
	client          *http.Client
	perFetchTimeout time.Duration
	minPayloadBytes int64
}

// NewFetcher constructs a Fetcher. A zero timeout defaults to 20s and a
// zero minimum size to DefaultMinPayloadBytes.
func NewFetcher(client *http.Client, perFetchTimeout time.Duration, minPayloadBytes int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if perFetchTimeout <= 0 {
		perFetchTimeout = 20 * time.Second
	}
	if minPayloadBytes <= 0 {
		minPayloadBytes = DefaultMinPayloadBytes
	}
	return &Fetcher{
		client:          client,
		perFetchTimeout: perFetchTimeout,
		minPayloadBytes: minPayloadBytes,
	}
}

// Fetch downloads the first usable rendition from the metadata's candidate
// list. Zero renditions is NotFoundOrPrivate; when every candidate fails the
// last classification error is returned.
func (f *Fetcher) Fetch(ctx context.Context, metadata *model.SourceMetadata) (*model.MediaPayload, error) {
	if metadata == nil {
		return nil, fmt.Errorf("nil metadata: %w", model.ErrNotFoundOrPrivate)
	}
	if len(metadata.Renditions) == 0 {
		return nil, fmt.Errorf("no renditions available for %s/%s: %w",
			metadata.Platform, metadata.Identifier, model.ErrNotFoundOrPrivate)
	}

	candidates := SortRenditions(metadata.Renditions)

	var lastErr error
	for i, rendition := range candidates {
		payload, err := f.fetchOne(ctx, &rendition)
		if err != nil {
			slog.Warn("rendition download failed",
				"platform", string(metadata.Platform),
				"identifier", metadata.Identifier,
				"candidate", i,
				"label", rendition.Label,
				"error", err)
			lastErr = err
			continue
		}
		payload.Filename = fmt.Sprintf("%s_%s.mp4", metadata.Platform, metadata.Identifier)
		return payload, nil
	}
	return nil, lastErr
}

// SortRenditions returns the candidates ordered smallest-first by reported
// size. Renditions with no size information sort after every sized one, in
// their original order.
func SortRenditions(renditions []model.Rendition) []model.Rendition {
	out := make([]model.Rendition, len(renditions))
	copy(out, renditions)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].SizeBytes, out[j].SizeBytes
		if a <= 0 {
			return false
		}
		if b <= 0 {
			return true
		}
		return a < b
	})
	return out
}

// fetchOne downloads a single rendition under its own timeout and validates
// the body.
func (f *Fetcher) fetchOne(ctx context.Context, rendition *model.Rendition) (*model.MediaPayload, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.perFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rendition.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("rendition request: %w", model.ErrServiceUnavailable)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("rendition download timed out: %w", model.ErrServiceUnavailable)
		}
		return nil, fmt.Errorf("rendition download: %v: %w", err, model.ErrServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rendition status %d: %w", resp.StatusCode, classifyStatus(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rendition body read: %v: %w", err, model.ErrServiceUnavailable)
	}

	if int64(len(body)) < f.minPayloadBytes {
		return nil, fmt.Errorf("rendition body too small (%d bytes): %w", len(body), model.ErrServiceUnavailable)
	}

	mimeType := rendition.MIMEType
	if kind, err := filetype.Match(body); err == nil && kind != filetype.Unknown {
		if kind.MIME.Type != "video" {
			return nil, fmt.Errorf("rendition body is %s, not video: %w", kind.MIME.Value, model.ErrServiceUnavailable)
		}
		mimeType = kind.MIME.Value
	}
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	return &model.MediaPayload{
		Bytes:     body,
		MIMEType:  mimeType,
		Size:      int64(len(body)),
		SourceURL: rendition.URL,
	}, nil
}

// classifyStatus maps an upstream HTTP status to the shared error taxonomy.
func classifyStatus(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return model.ErrRateLimited
	case http.StatusNotFound:
		return model.ErrNotFoundOrPrivate
	default:
		return model.ErrServiceUnavailable
	}
}
