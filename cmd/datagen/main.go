package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/campusmap/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		rows         = flag.Int("rows", cfg.Rows, "number of building rows")
		cols         = flag.Int("cols", cfg.Cols, "number of building columns")
		spacing      = flag.Float64("spacing", cfg.Spacing, "distance between neighbouring building centres")
		jitter       = flag.Float64("jitter", cfg.Jitter, "maximum per-axis displacement of walkway doors; keep at or below half the snap tolerance")
		viaPoints    = flag.Int("via", cfg.ViaPoints, "intermediate points per walkway")
		directChance = flag.Float64("direct-chance", cfg.DirectChance, "probability of a centre-to-centre walkway without via points")
		dropChance   = flag.Float64("drop-chance", cfg.DropChance, "probability of leaving out a walkway between neighbours")
		dangling     = flag.Int("dangling", cfg.DanglingWalkways, "walkways pointing at buildings that do not exist")
		rooms        = flag.Int("rooms", cfg.RoomsPerBuilding, "rooms per building")
		crChance     = flag.Float64("cr-chance", cfg.CRChance, "probability of a building having a comfort room")
		schedChance  = flag.Float64("schedule-chance", cfg.ScheduleChance, "probability of a room having classes")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output       = flag.String("output", "static/data/campus.json", "file to write; .yaml or .yml writes YAML")
		writeStdout  = flag.Bool("stdout", false, "write the campus as JSON to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		Rows:             *rows,
		Cols:             *cols,
		Spacing:          *spacing,
		Jitter:           *jitter,
		ViaPoints:        *viaPoints,
		DirectChance:     clampProbability(*directChance),
		DropChance:       clampProbability(*dropChance),
		DanglingWalkways: *dangling,
		RoomsPerBuilding: *rooms,
		CRChance:         clampProbability(*crChance),
		ScheduleChance:   clampProbability(*schedChance),
		Seed:             *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	campus, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(campus); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write campus to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteCampus(campus, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write campus: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d buildings and %d walkways into %s\n", len(campus.Buildings), len(campus.Walkways), *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
