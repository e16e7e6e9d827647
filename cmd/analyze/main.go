// Analyze builds the navigation graph and collision mesh for each configured
// map, simulates team spread from the spawn points and writes the tick
// series as JSON. With a database configured it also records runs and skips
// maps whose input files did not change since the last run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/navspread/internal/config"
	"github.com/udisondev/navspread/internal/db"
	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/loader"
	"github.com/udisondev/navspread/internal/spread"
	"github.com/udisondev/navspread/internal/staleness"
)

const ConfigPath = "config/analyze.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("NAVSPREAD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadAnalysis(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("analyze starting", "maps", len(cfg.Maps), "granularity", cfg.Granularity)

	var store *db.DB
	if cfg.DatabaseDSN != "" {
		store, err = db.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer store.Close()
		if err := db.RunMigrations(ctx, cfg.DatabaseDSN); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database connected")
	}

	for _, mapName := range cfg.Maps {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := analyzeMap(ctx, cfg, store, mapName); err != nil {
			return fmt.Errorf("analyzing %s: %w", mapName, err)
		}
	}
	return nil
}

func analyzeMap(ctx context.Context, cfg config.Analysis, store *db.DB, mapName string) error {
	inputs := []string{
		filepath.Join(cfg.DataDir, "nav", mapName+".json"),
		filepath.Join(cfg.DataDir, "spawns", mapName+".json"),
		filepath.Join(cfg.DataDir, "tri", mapName+".tri"),
		filepath.Join(cfg.DataDir, "tri", mapName+"-clippings.tri"),
	}
	navPath, spawnsPath, triPath, clipPath := inputs[0], inputs[1], inputs[2], inputs[3]

	digests, err := staleness.HashFiles(inputs)
	if err != nil {
		return err
	}
	if store != nil {
		stored, err := store.InputHashes(ctx, mapName)
		if err != nil {
			return err
		}
		if unchanged(stored, digests) {
			slog.Info("inputs unchanged, skipping", "map", mapName)
			return nil
		}
	}

	areas, err := loader.LoadNavAreas(navPath)
	if err != nil {
		return err
	}
	ct, t, err := loader.LoadSpawns(spawnsPath)
	if err != nil {
		return err
	}

	// The two triangle files are independent; load them concurrently.
	var worldTris, clipTris []geom.Triangle
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		worldTris, err = loader.LoadTriangles(triPath)
		return err
	})
	g.Go(func() error {
		var err error
		clipTris, err = loader.LoadTriangles(clipPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	graph, mesh, err := spread.BuildMap(areas, worldTris, clipTris)
	if err != nil {
		return err
	}
	slog.Info("map data built", "map", mapName, "areas", graph.Len())

	sim := spread.NewSimulator(graph, mesh)
	result, err := sim.Run(ct, t, spread.Params{
		Granularity:  cfg.Granularity,
		Speed:        cfg.Speed,
		TickDuration: cfg.TickDuration,
		MaxTicks:     cfg.MaxTicks,
		EyeLevel:     cfg.EyeLevel,
	})
	if err != nil {
		return err
	}
	result.TeamA = ct.Team
	result.TeamB = t.Team
	slog.Info("simulation finished",
		"map", mapName,
		"ticks", len(result.Ticks),
		"first_contact_tick", result.FirstContactTick())

	if err := writeResult(cfg.OutputDir, mapName, result); err != nil {
		return err
	}

	if store != nil {
		if _, err := store.InsertRun(ctx, db.Run{
			MapName:          mapName,
			Granularity:      cfg.Granularity,
			Speed:            cfg.Speed,
			TickDuration:     cfg.TickDuration,
			Ticks:            len(result.Ticks),
			FirstContactTick: result.FirstContactTick(),
		}); err != nil {
			return err
		}
		if err := store.StoreInputHashes(ctx, mapName, digests); err != nil {
			return err
		}
	}
	return nil
}

func unchanged(stored, current map[string]string) bool {
	if len(stored) == 0 {
		return false
	}
	for file, digest := range current {
		if stored[file] != digest {
			return false
		}
	}
	return true
}

func writeResult(outDir, mapName string, result *spread.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(outDir, mapName+"_spread.json")
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result for %s: %w", mapName, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result %s: %w", path, err)
	}
	slog.Info("result written", "path", path)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
