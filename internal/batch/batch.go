// Package batch converts every OHH export in a directory, once or on a
// polling interval.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ohh2stars/internal/converter"
	"github.com/lox/ohh2stars/internal/fileutil"
)

// Config configures a Runner.
type Config struct {
	OutputDir    string
	OutputSuffix string
	Workers      int
	Overwrite    bool
	Clock        quartz.Clock
}

// FileResult is the outcome for a single input file.
type FileResult struct {
	Input   string
	Output  string
	Hands   int
	Skipped int
	Err     error
}

// Report summarises one pass over a directory.
type Report struct {
	RunID    string
	Dir      string
	Started  time.Time
	Finished time.Time
	Results  []FileResult
}

// Converted counts files written successfully.
func (r Report) Converted() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error.
func (r Report) Failed() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Runner converts files through a shared Converter.
type Runner struct {
	cfg    Config
	conv   *converter.Converter
	logger zerolog.Logger
	clock  quartz.Clock
}

// NewRunner creates a Runner.
func NewRunner(conv *converter.Converter, logger zerolog.Logger, cfg Config) *Runner {
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = fileutil.DefaultOutputSuffix
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	return &Runner{cfg: cfg, conv: conv, logger: logger, clock: cfg.Clock}
}

// Inputs lists the convertible files in dir, sorted by name. Files produced
// by a previous run are excluded.
func (r *Runner) Inputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if fileutil.IsOutputFile(name, r.cfg.OutputSuffix) || !r.conv.Accepts(name) {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, name))
	}
	sort.Strings(inputs)
	return inputs, nil
}

// ConvertDir converts every input in dir. Per-file failures are recorded in
// the report; only a failure to list the directory is returned as an error.
func (r *Runner) ConvertDir(ctx context.Context, dir string) (Report, error) {
	inputs, err := r.Inputs(dir)
	if err != nil {
		return Report{}, err
	}
	return r.ConvertFiles(ctx, dir, inputs)
}

// ConvertFiles converts the given inputs concurrently. When several inputs
// share a stem and so map to the same output, the first in order converts
// and the rest fail with ErrOutputCollision.
func (r *Runner) ConvertFiles(ctx context.Context, dir string, inputs []string) (Report, error) {
	return r.convertFiles(ctx, dir, inputs, r.outputOwners(inputs))
}

// outputOwners maps each output path to the first input that produces it.
func (r *Runner) outputOwners(inputs []string) map[string]string {
	owners := make(map[string]string, len(inputs))
	for _, input := range inputs {
		out := fileutil.OutputPath(input, r.cfg.OutputDir, r.cfg.OutputSuffix)
		if _, ok := owners[out]; !ok {
			owners[out] = input
		}
	}
	return owners
}

func (r *Runner) convertFiles(ctx context.Context, dir string, inputs []string, owners map[string]string) (Report, error) {
	report := Report{
		RunID:   uuid.NewString(),
		Dir:     dir,
		Started: r.clock.Now(),
		Results: make([]FileResult, len(inputs)),
	}
	logger := r.logger.With().Str("run_id", report.RunID).Logger()
	logger.Info().Str("dir", dir).Int("files", len(inputs)).Msg("starting batch conversion")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, input := range inputs {
		out := fileutil.OutputPath(input, r.cfg.OutputDir, r.cfg.OutputSuffix)
		if owner, ok := owners[out]; ok && owner != input {
			report.Results[i] = FileResult{
				Input:  input,
				Output: out,
				Err:    fmt.Errorf("%w: %s also writes %s", ErrOutputCollision, owner, out),
			}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.Results[i] = FileResult{Input: input, Err: err}
				return nil
			}
			report.Results[i] = r.convertOne(gctx, input)
			return nil
		})
	}
	_ = g.Wait()

	report.Finished = r.clock.Now()
	for _, res := range report.Failed() {
		logger.Warn().Err(res.Err).Str("input", res.Input).Msg("file conversion failed")
	}
	logger.Info().
		Int("converted", report.Converted()).
		Int("failed", len(report.Failed())).
		Dur("elapsed", report.Finished.Sub(report.Started)).
		Msg("batch conversion finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// ErrOutputExists is recorded for inputs whose output already exists when
// overwriting is disabled.
var ErrOutputExists = errors.New("output already exists")

// ErrOutputCollision is recorded for an input whose output path is already
// claimed by an earlier input in the same directory.
var ErrOutputCollision = errors.New("output path claimed by another input")

func (r *Runner) convertOne(ctx context.Context, input string) FileResult {
	res := FileResult{
		Input:  input,
		Output: fileutil.OutputPath(input, r.cfg.OutputDir, r.cfg.OutputSuffix),
	}

	if !r.cfg.Overwrite {
		if _, err := os.Stat(res.Output); err == nil {
			res.Err = fmt.Errorf("%w: %s", ErrOutputExists, res.Output)
			return res
		}
	}

	data, err := os.ReadFile(input)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		return res
	}

	out, stats, err := r.conv.ConvertDetailed(ctx, string(data))
	res.Skipped = len(stats.Failures)
	if err != nil {
		res.Err = err
		return res
	}
	res.Hands = stats.Hands

	if err := fileutil.WriteFileAtomic(res.Output, []byte(out), 0o644); err != nil {
		res.Err = err
		return res
	}
	r.logger.Debug().Str("input", input).Str("output", res.Output).Int("hands", res.Hands).Msg("converted file")
	return res
}
