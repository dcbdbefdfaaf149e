package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/campusmap/internal/config"
	"github.com/vanshika/campusmap/internal/graph"
	"github.com/vanshika/campusmap/internal/logging"
	"github.com/vanshika/campusmap/internal/repository"
	"github.com/vanshika/campusmap/internal/server"
	"github.com/vanshika/campusmap/internal/service"
	"github.com/vanshika/campusmap/internal/topology"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		source      topology.Source
		graphClient graph.Client
	)
	switch cfg.Topology.Source {
	case config.SourceGraph:
		client, err := buildGraphClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("create graph client: %w", err)
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
		graphClient = client
		source = repository.New(client)
	default:
		source = topology.FileSource{Path: cfg.Topology.Path}
	}

	campus := service.NewCampusService(source, cfg.Routing, cfg.Map, logger)
	if err := campus.Reload(ctx); err != nil {
		return fmt.Errorf("initial topology load: %w", err)
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.TopologyHealthService{Campus: campus, Client: graphClient},
		API:              server.NewAPIHandlers(logger, campus),
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   server.ParseOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})
	srv := server.New(logger, cfg.HTTP, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Topology.Watch && cfg.Topology.Source == config.SourceFile {
		watcher := topology.NewWatcher(cfg.Topology.Path, topology.DefaultDebounce, logger.With("component", "watcher"), campus.Reload)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	return g.Wait()
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}
