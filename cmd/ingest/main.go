package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/campusmap/internal/config"
	"github.com/vanshika/campusmap/internal/graph"
	"github.com/vanshika/campusmap/internal/logging"
	"github.com/vanshika/campusmap/internal/repository"
	"github.com/vanshika/campusmap/internal/service"
	"github.com/vanshika/campusmap/internal/topology"
)

var errMissingTopology = errors.New("topology file not found")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		path    = flag.String("topology", cfg.Topology.Path, "Path to the campus topology (.json, .yaml or .xml)")
		reset   = flag.Bool("reset", false, "Delete the stored campus before seeding")
		workers = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "ingest")

	if _, err := os.Stat(*path); err != nil {
		logger.Error("topology resolution failed", "error", fmt.Errorf("%w: %s", errMissingTopology, *path))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	campus, err := topology.FileSource{Path: *path}.Load(ctx)
	if err != nil {
		logger.Error("failed to load topology", "error", err, "path", *path)
		os.Exit(1)
	}
	if err := topology.Validate(campus); err != nil {
		logger.Error("topology rejected", "error", err, "path", *path)
		os.Exit(1)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	ingestor := service.NewBulkIngestor(repository.New(graphClient), *workers)

	start := time.Now()
	logger.Info("ingesting topology",
		"buildings", len(campus.Buildings),
		"walkways", len(campus.Walkways),
		"rooms", len(campus.Rooms),
		"workers", *workers,
		"reset", *reset,
	)
	report, err := ingestor.Ingest(ctx, campus, *reset)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"buildings", report.Buildings,
		"walkways", report.Walkways,
		"skipped_walkways", report.SkippedWalkways,
		"rooms", report.Rooms,
		"schedules", report.Schedules,
	)
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
