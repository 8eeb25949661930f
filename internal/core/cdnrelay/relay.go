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

// Package cdnrelay streams downloaded video bodies into the hosting bucket
// and mints playback URLs for them. Hosting is an optimization, never a
// correctness requirement: callers absorb relay failures and continue the
// pipeline without a playback URL.
package cdnrelay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// playbackURLPrefix is the stable URL scheme served back to clients for
// hosted assets.
const playbackURLPrefix = "https://storage.mtls.cloud.google.com/"

// Relay uploads media payloads to the hosting bucket.
type Relay struct {
	storageClient *storage.Client
	httpClient    *http.Client
	bucket        string
}

// NewRelay constructs a relay over the given bucket.
func NewRelay(storageClient *storage.Client, httpClient *http.Client, bucket string) *Relay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Relay{
		storageClient: storageClient,
		httpClient:    httpClient,
		bucket:        bucket,
	}
}

// Upload writes the payload bytes into the bucket and returns the playback
// URL plus the opaque asset id. The asset id doubles as the object name, a
// fresh UUID carrying the original file extension.
func (r *Relay) Upload(ctx context.Context, payload []byte, filename string, mimeType string) (playbackURL string, assetID string, err error) {
	assetID = newAssetID(filename)

	writer := r.storageClient.Bucket(r.bucket).Object(assetID).NewWriter(ctx)
	writer.ContentType = mimeType
	if _, err = io.Copy(writer, bytes.NewReader(payload)); err != nil {
		_ = writer.Close()
		return "", "", fmt.Errorf("cdn upload of %s: %w", filename, err)
	}
	if err = writer.Close(); err != nil {
		return "", "", fmt.Errorf("cdn upload close for %s: %w", filename, err)
	}

	return playbackURLPrefix + r.bucket + "/" + assetID, assetID, nil
}

// UploadFromURL streams a remote body straight into the bucket without
// buffering the whole file in memory. Used when the source platform already
// serves a stable media URL.
func (r *Relay) UploadFromURL(ctx context.Context, remoteURL string, filename string) (playbackURL string, assetID string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("cdn source request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("cdn source fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("cdn source status %d for %s", resp.StatusCode, remoteURL)
	}

	assetID = newAssetID(filename)
	writer := r.storageClient.Bucket(r.bucket).Object(assetID).NewWriter(ctx)
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		writer.ContentType = contentType
	}
	if _, err = io.Copy(writer, resp.Body); err != nil {
		_ = writer.Close()
		return "", "", fmt.Errorf("cdn stream of %s: %w", remoteURL, err)
	}
	if err = writer.Close(); err != nil {
		return "", "", fmt.Errorf("cdn stream close for %s: %w", remoteURL, err)
	}

	return playbackURLPrefix + r.bucket + "/" + assetID, assetID, nil
}

// SignedPlaybackURL mints a time-limited V4 signed URL for a hosted asset so
// clients can stream it without credentials.
func (r *Relay) SignedPlaybackURL(assetID string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(expires),
	}
	u, err := r.storageClient.Bucket(r.bucket).SignedURL(assetID, opts)
	if err != nil {
		return "", fmt.Errorf("signing playback URL for %q: %w", assetID, err)
	}
	return u, nil
}

// newAssetID generates the object name for an upload: a UUID plus the
// original extension, defaulting to .mp4.
func newAssetID(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".mp4"
	}
	return uuid.NewString() + ext
}
