// Package converter turns OHH exports into PokerStars hand-history text. It
// is the single entry point used by the CLI and batch tooling.
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ohh2stars/internal/ohh"
	"github.com/lox/ohh2stars/internal/stars"
)

// HandSeparator joins rendered hands in the output.
const HandSeparator = "\n\n\n\n"

// ErrNoHands is returned when the input holds no decodable hand.
var ErrNoHands = errors.New("no valid hands found in file")

// ErrUnsupportedExtension is returned by ConvertFile for files outside the
// accepted extension list.
var ErrUnsupportedExtension = errors.New("unsupported file type")

// DefaultExtensions are the file types accepted by ConvertFile.
var DefaultExtensions = []string{".ohh", ".txt", ".json"}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithWorkers bounds how many hands are rendered concurrently. Values below
// one select the number of CPUs.
func WithWorkers(n int) Option {
	return func(c *Converter) { c.workers = n }
}

// WithExtensions replaces the accepted file extensions for ConvertFile.
func WithExtensions(exts ...string) Option {
	return func(c *Converter) { c.extensions = exts }
}

// Converter parses and renders OHH input.
type Converter struct {
	logger     zerolog.Logger
	workers    int
	extensions []string
	parser     *ohh.Parser
	renderer   *stars.Renderer
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger:     zerolog.Nop(),
		workers:    1,
		extensions: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	c.parser = ohh.NewParser(c.logger.With().Str("component", "parser").Logger())
	c.renderer = stars.NewRenderer(c.logger.With().Str("component", "renderer").Logger())
	return c
}

// Convert converts raw OHH text with a default Converter.
func Convert(raw string) (string, error) {
	return New().Convert(context.Background(), raw)
}

// Convert parses raw and returns every hand rendered and joined by
// HandSeparator, in input order.
func (c *Converter) Convert(ctx context.Context, raw string) (string, error) {
	out, _, err := c.ConvertDetailed(ctx, raw)
	return out, err
}

// Stats summarises one conversion.
type Stats struct {
	Chunks   int
	Hands    int
	Failures []*ohh.ChunkError
}

// ConvertDetailed is Convert plus parse statistics, including the chunks that
// were skipped.
func (c *Converter) ConvertDetailed(ctx context.Context, raw string) (string, Stats, error) {
	c.logger.Debug().Int("bytes", len(raw)).Msg("converting OHH content")

	res := c.parser.ParseDetailed(raw)
	stats := Stats{Chunks: res.Chunks, Hands: len(res.Hands), Failures: res.Failures}
	if len(res.Hands) == 0 {
		c.logger.Error().Int("chunks", res.Chunks).Int("failures", len(res.Failures)).Msg(ErrNoHands.Error())
		return "", stats, fmt.Errorf("%w: %w", ErrNoHands, ohh.ErrNoValidHands)
	}

	blocks, err := c.renderAll(ctx, res.Hands)
	if err != nil {
		return "", stats, err
	}

	out := strings.Join(blocks, HandSeparator)
	c.logger.Info().
		Int("hands", len(blocks)).
		Int("skipped_chunks", len(res.Failures)).
		Int("output_bytes", len(out)).
		Msg("conversion complete")
	return out, stats, nil
}

func (c *Converter) renderAll(ctx context.Context, hands []ohh.HandRecord) ([]string, error) {
	blocks := make([]string, len(hands))
	if c.workers == 1 || len(hands) == 1 {
		for i, hand := range hands {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			blocks[i] = c.renderer.Render(hand)
		}
		return blocks, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range hands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blocks[i] = c.renderer.Render(hands[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ConvertFile reads the file at path and converts its content.
func (c *Converter) ConvertFile(ctx context.Context, path string) (string, error) {
	if !c.Accepts(path) {
		return "", fmt.Errorf("%w: %s (expected one of %s)", ErrUnsupportedExtension, filepath.Base(path), strings.Join(c.extensions, ", "))
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return c.Convert(ctx, string(data))
}

// Accepts reports whether path has one of the accepted extensions.
func (c *Converter) Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range c.extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
