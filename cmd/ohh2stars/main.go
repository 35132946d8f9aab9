package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/ohh2stars/cmd/ohh2stars/shared"
	"github.com/lox/ohh2stars/internal/config"
	"github.com/lox/ohh2stars/internal/converter"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `help:"Path to an HCL or TOML config file" type:"path" env:"OHH2STARS_CONFIG"`
	Debug    bool   `help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" help:"Log as JSON instead of console text"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Convert ConvertCmd       `cmd:"" help:"Convert OHH files to PokerStars text"`
	Preview PreviewCmd       `cmd:"" help:"Print converted hands with highlighted streets"`
	Batch   BatchCmd         `cmd:"" help:"Convert every OHH file in a directory"`
	Watch   WatchCmd         `cmd:"" help:"Convert new or changed OHH files in a directory as they appear"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ohh2stars"),
		kong.Description("Convert Open Hand History exports into PokerStars hand histories"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// setup loads the config file and builds the logger every command uses.
func (g *Globals) setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	level := shared.ParseLevel(cfg.LogLevel, g.Debug)
	var logger zerolog.Logger
	if g.JSONLogs || cfg.JSONLogs {
		logger = shared.SetupStructuredLogger(level)
	} else {
		logger = shared.SetupLogger(level)
	}
	if g.Config != "" {
		if _, statErr := os.Stat(g.Config); statErr != nil {
			logger.Debug().Str("path", g.Config).Msg("config file not found, using defaults")
		}
	}
	return cfg, logger, nil
}

func newConverter(cfg *config.Config, logger zerolog.Logger) *converter.Converter {
	return converter.New(
		converter.WithLogger(logger),
		converter.WithWorkers(cfg.Workers),
		converter.WithExtensions(cfg.Extensions...),
	)
}
