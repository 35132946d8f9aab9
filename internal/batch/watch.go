package batch

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/ohh2stars/internal/state"
)

// Watcher polls a directory and converts inputs that are new or changed since
// they were last converted. Files that fail to convert are not retried until
// they change again.
type Watcher struct {
	runner   *Runner
	logger   zerolog.Logger
	store    state.Store
	onReport func(Report)
}

// NewWatcher creates a watcher. store remembers converted inputs and defaults
// to an in-memory store when nil. onReport, when non-nil, receives the report
// of every poll that converted at least one file.
func NewWatcher(runner *Runner, logger zerolog.Logger, store state.Store, onReport func(Report)) *Watcher {
	if store == nil {
		store = state.NewMemoryStore()
	}
	return &Watcher{
		runner:   runner,
		logger:   logger,
		store:    store,
		onReport: onReport,
	}
}

// Poll converts every input in dir whose size or modification time differs
// from the recorded conversion. Output ownership is decided over every input
// in dir, so a changed file never overwrites the output of an earlier file
// sharing its stem.
func (w *Watcher) Poll(ctx context.Context, dir string) (Report, error) {
	inputs, err := w.runner.Inputs(dir)
	if err != nil {
		return Report{}, err
	}

	var pending []string
	stamps := make(map[string]state.Stamp)
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			continue
		}
		stamp := state.Stamp{ModTime: info.ModTime(), Size: info.Size()}
		prev, ok, err := w.store.Lookup(ctx, input)
		if err != nil {
			return Report{}, err
		}
		if ok && prev.Stamp.Equal(stamp) {
			continue
		}
		stamps[input] = stamp
		pending = append(pending, input)
	}

	if len(pending) == 0 {
		return Report{Dir: dir}, nil
	}
	report, err := w.runner.convertFiles(ctx, dir, pending, w.runner.outputOwners(inputs))
	if err != nil {
		return report, err
	}

	for _, res := range report.Results {
		rec := state.Record{
			Input:       res.Input,
			Stamp:       stamps[res.Input],
			Output:      res.Output,
			Hands:       res.Hands,
			Skipped:     res.Skipped,
			RunID:       report.RunID,
			ConvertedAt: report.Finished,
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		if err := w.store.Save(ctx, rec); err != nil {
			return report, err
		}
	}

	if w.onReport != nil {
		w.onReport(report)
	}
	return report, nil
}

// Run polls dir immediately and then every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, dir string, interval time.Duration) error {
	ticker := w.runner.clock.NewTicker(interval, "watch")
	defer ticker.Stop()

	w.logger.Info().Str("dir", dir).Dur("interval", interval).Msg("watching for hand histories")
	w.poll(ctx, dir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("dir", dir).Msg("stopped watching")
			return nil
		case <-ticker.C:
			w.poll(ctx, dir)
		}
	}
}

func (w *Watcher) poll(ctx context.Context, dir string) {
	if _, err := w.Poll(ctx, dir); err != nil && ctx.Err() == nil {
		w.logger.Error().Err(err).Str("dir", dir).Msg("watch poll failed")
	}
}
