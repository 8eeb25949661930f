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

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/clipforge/social-ingest/internal/core/model"
	"github.com/clipforge/social-ingest/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	otelShutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware(config.Application.Name))

	// Default CORS is permissive; the API sits behind the edge proxy in
	// every deployed environment.
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		IngestRouter(apiV1)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}

	// Let queued analysis drain before tearing the clients down.
	state.pool.Stop()
	if err := otelShutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown telemetry", "error", err)
	}
	state.cloud.Close()

	log.Println("Server exiting")
}

// IngestRouter sets up the ingestion routes: start a job, poll it, and mint
// a signed streaming URL for its hosted asset.
func IngestRouter(r *gin.RouterGroup) {
	ingest := r.Group("/ingest")
	{
		ingest.POST("", func(c *gin.Context) {
			var request model.IngestRequest
			if err := c.ShouldBindJSON(&request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			job, err := state.orchestrator.Ingest(c.Request.Context(), &request)
			if err != nil {
				c.JSON(model.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, job)
		})

		ingest.GET("/:id", func(c *gin.Context) {
			job, err := state.jobService.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(model.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, job)
		})

		ingest.GET("/:id/stream", func(c *gin.Context) {
			job, err := state.jobService.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(model.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			if job.AssetID == "" {
				c.JSON(http.StatusNotFound, gin.H{"error": "no hosted asset for this job"})
				return
			}

			ttl := time.Duration(state.config.Storage.SignedURLTTLSeconds) * time.Second
			signedURL, err := state.relay.SignedPlaybackURL(job.AssetID, ttl)
			if err != nil {
				slog.Error("could not sign playback url", "job_id", job.ID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate streaming URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}
}
