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

// This file defines the error taxonomy shared across the pipeline. Stages
// wrap these sentinels with %w so callers can classify failures with
// errors.Is and map them to HTTP status codes at the boundary.

package model

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput marks a malformed or unsupported source URL, rejected
	// before any I/O happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited marks an upstream 429. Not retried automatically.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrNotFoundOrPrivate marks an upstream 404 or an empty rendition set.
	// Terminal for the job.
	ErrNotFoundOrPrivate = errors.New("content not found or private")

	// ErrServiceUnavailable marks any other upstream failure, timeout, or
	// transport error.
	ErrServiceUnavailable = errors.New("upstream service unavailable")

	// ErrJobNotFound marks a lookup for a job id that does not exist in the
	// job store.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition marks an attempt to move a job to a status its
	// current status does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// HTTPStatus maps an error to the status code the HTTP boundary returns for
// it. Unclassified errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotFoundOrPrivate), errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
