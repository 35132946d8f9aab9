package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lox/ohh2stars/internal/converter"
	"github.com/lox/ohh2stars/internal/fileutil"
	"github.com/lox/ohh2stars/internal/preview"
	"github.com/lox/ohh2stars/internal/tui"
)

// ConvertCmd converts one or more files and writes the joined result.
type ConvertCmd struct {
	Files  []string `arg:"" name:"file" help:"OHH export files (.ohh, .txt, .json)" type:"existingfile"`
	Output string   `short:"o" help:"Write output to this file instead of stdout" type:"path"`
}

func (cmd *ConvertCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	conv := newConverter(cfg, logger)
	ctx := context.Background()

	blocks := make([]string, 0, len(cmd.Files))
	for _, file := range cmd.Files {
		out, err := conv.ConvertFile(ctx, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		blocks = append(blocks, out)
	}
	result := strings.Join(blocks, converter.HandSeparator)

	if cmd.Output != "" {
		if err := fileutil.WriteFileAtomic(cmd.Output, []byte(result+"\n"), 0o644); err != nil {
			return err
		}
		logger.Info().Str("output", cmd.Output).Int("files", len(cmd.Files)).Msg("wrote PokerStars hand history")
		return nil
	}

	_, err = fmt.Fprintln(os.Stdout, result)
	return err
}

// PreviewCmd prints converted hands to the terminal, or pages through them
// full-screen with --interactive.
type PreviewCmd struct {
	File        string `arg:"" name:"file" help:"OHH export file" type:"existingfile"`
	Limit       int    `help:"Maximum number of hands to show (0 = all)"`
	Plain       bool   `help:"Disable colours"`
	Interactive bool   `short:"i" help:"Browse hands in a full-screen viewer"`
}

func (cmd *PreviewCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	out, err := newConverter(cfg, logger).ConvertFile(context.Background(), cmd.File)
	if err != nil {
		return err
	}
	blocks := strings.Split(out, converter.HandSeparator)

	var opts []preview.Option
	if cmd.Plain {
		opts = append(opts, preview.WithPlainText())
	}
	printer := preview.NewPrinter(os.Stdout, opts...)

	if cmd.Interactive {
		if cmd.Limit > 0 && cmd.Limit < len(blocks) {
			blocks = blocks[:cmd.Limit]
		}
		return tui.Run(blocks, printer.Highlight)
	}
	printer.PrintAll(blocks, cmd.Limit)
	return nil
}
