package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/ohh2stars/cmd/ohh2stars/shared"
	"github.com/lox/ohh2stars/internal/batch"
	"github.com/lox/ohh2stars/internal/config"
	"github.com/lox/ohh2stars/internal/state"
)

// BatchCmd converts a directory of exports once.
type BatchCmd struct {
	Dir       string `arg:"" name:"dir" help:"Directory holding OHH exports" type:"existingdir"`
	Out       string `help:"Directory for converted files (default: alongside inputs)" type:"path"`
	Suffix    string `help:"Suffix replacing the input extension (default from config)"`
	Overwrite bool   `help:"Replace existing converted files"`
	Workers   int    `help:"Files converted concurrently" default:"4"`
}

func (cmd *BatchCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(newConverter(cfg, logger), logger, batchConfig(cfg, cmd.Out, cmd.Suffix, cmd.Overwrite, cmd.Workers))
	report, err := runner.ConvertDir(context.Background(), cmd.Dir)
	if err != nil {
		return err
	}
	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", failed, len(report.Results))
	}
	return nil
}

// WatchCmd keeps converting a directory until interrupted.
type WatchCmd struct {
	Dir      string        `arg:"" name:"dir" help:"Directory to watch for OHH exports" type:"existingdir"`
	Out      string        `help:"Directory for converted files (default: alongside inputs)" type:"path"`
	Interval time.Duration `help:"Polling interval (default from config, 5s)"`
	Workers  int           `help:"Files converted concurrently" default:"4"`
	State    string        `help:"SQLite file remembering converted inputs across restarts" type:"path"`
}

func (cmd *WatchCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	interval := cmd.Interval
	if interval <= 0 {
		if interval, err = cfg.WatchInterval(); err != nil {
			return err
		}
	}

	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	var store state.Store
	if path := cmd.statePath(cfg); path != "" {
		db, err := state.OpenSQLite(ctx, path)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Debug().Str("path", path).Msg("using persistent watch state")
		store = db
	}

	runner := batch.NewRunner(newConverter(cfg, logger), logger, batchConfig(cfg, cmd.Out, "", true, cmd.Workers))
	watcher := batch.NewWatcher(runner, logger, store, logReport(logger))
	return watcher.Run(ctx, cmd.Dir, interval)
}

func (cmd *WatchCmd) statePath(cfg *config.Config) string {
	if cmd.State != "" {
		return cmd.State
	}
	if cfg.Watch != nil {
		return cfg.Watch.StateFile
	}
	return ""
}

// batchConfig merges command flags over the config file. Watch mode always
// overwrites so edited exports are reconverted.
func batchConfig(cfg *config.Config, out, suffix string, overwrite bool, workers int) batch.Config {
	bc := batch.Config{
		OutputDir:    cfg.OutputDir,
		OutputSuffix: cfg.OutputSuffix,
		Workers:      workers,
		Overwrite:    overwrite || cfg.Overwrite,
	}
	if out != "" {
		bc.OutputDir = out
	}
	if suffix != "" {
		bc.OutputSuffix = suffix
	}
	return bc
}

func logReport(logger zerolog.Logger) func(batch.Report) {
	return func(r batch.Report) {
		for _, res := range r.Results {
			if res.Err != nil {
				continue
			}
			logger.Info().
				Str("input", res.Input).
				Str("output", res.Output).
				Int("hands", res.Hands).
				Int("skipped", res.Skipped).
				Msg("converted")
		}
	}
}
