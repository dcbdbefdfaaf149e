package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Graph    GraphConfig
	Logging  LoggingConfig
	Topology TopologyConfig
	Routing  RoutingConfig
	Map      MapConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the Neo4j topology store.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// Topology sources.
const (
	SourceFile  = "file"
	SourceGraph = "graph"
)

// TopologyConfig selects where the campus description is read from.
type TopologyConfig struct {
	Source string // file|graph
	Path   string
	Watch  bool
}

// RoutingConfig tunes routing graph construction.
type RoutingConfig struct {
	SnapTolerance float64
	MaxNodes      int
}

// MapConfig carries the drawing defaults used when a topology omits them.
type MapConfig struct {
	DefaultHalfWidth  float64
	DefaultHalfHeight float64
	InvertY           bool
	CanvasWidth       float64
	CanvasHeight      float64
	Padding           float64
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultTopologyPath     = "static/data/campus.json"
	defaultSnapTolerance    = 2.0
	defaultHalfWidth        = 60.0
	defaultHalfHeight       = 30.0
	defaultCanvasWidth      = 1200.0
	defaultCanvasHeight     = 800.0
	defaultMapPadding       = 40.0
)

// Load reads configuration from environment variables, applying defaults.
// Variables from a .env file in the working directory are applied first;
// values already present in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Topology: TopologyConfig{
			Source: strings.ToLower(valueOrDefault("CAMPUS_TOPOLOGY_SOURCE", SourceFile)),
			Path:   valueOrDefault("CAMPUS_TOPOLOGY_PATH", defaultTopologyPath),
			Watch:  parseBoolWithDefault("CAMPUS_TOPOLOGY_WATCH", false),
		},
		Map: MapConfig{
			InvertY: parseBoolWithDefault("MAP_INVERT_Y", true),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", false)
	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	switch cfg.Topology.Source {
	case SourceFile, SourceGraph:
	default:
		return Config{}, fmt.Errorf("invalid CAMPUS_TOPOLOGY_SOURCE %q: want %s or %s", cfg.Topology.Source, SourceFile, SourceGraph)
	}

	floats := []struct {
		key      string
		fallback float64
		dst      *float64
	}{
		{"ROUTING_SNAP_TOLERANCE", defaultSnapTolerance, &cfg.Routing.SnapTolerance},
		{"MAP_DEFAULT_HALF_WIDTH", defaultHalfWidth, &cfg.Map.DefaultHalfWidth},
		{"MAP_DEFAULT_HALF_HEIGHT", defaultHalfHeight, &cfg.Map.DefaultHalfHeight},
		{"MAP_CANVAS_WIDTH", defaultCanvasWidth, &cfg.Map.CanvasWidth},
		{"MAP_CANVAS_HEIGHT", defaultCanvasHeight, &cfg.Map.CanvasHeight},
		{"MAP_PADDING", defaultMapPadding, &cfg.Map.Padding},
	}
	for _, f := range floats {
		val, err := parseNonNegativeFloat(f.key, f.fallback)
		if err != nil {
			return Config{}, err
		}
		*f.dst = val
	}

	maxNodes, err := parseNonNegativeInt("ROUTING_MAX_NODES", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.Routing.MaxNodes = maxNodes

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseNonNegativeInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, val)
	}
	return val, nil
}

func parseNonNegativeFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %v", key, val)
	}
	return val, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
