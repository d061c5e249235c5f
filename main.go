package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/movieids/internal/config"
	"github.com/mcncl/movieids/internal/errors"
	"github.com/mcncl/movieids/internal/extractor"
	"github.com/mcncl/movieids/internal/logging"
	"github.com/sirupsen/logrus"
)

// CLI defines the command-line interface
var CLI struct {
	Input   string `help:"Path to the input JSON or NDJSON file." short:"i" default:"movie_ids_x_x_x.json"`
	Output  string `help:"Path to the output file, one movie ID per line." short:"o" default:"ids.txt"`
	Config  string `help:"Path to a YAML config file. If not specified, .movieids.yml is searched for in the current and parent directories." short:"c" type:"path"`
	IDField string `help:"Object key holding the movie ID." name:"id-field" default:"id"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	Version bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *logrus.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("movieids"),
		kong.Description("Extract movie IDs from a JSON or NDJSON file into a plain text list"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if CLI.Version {
		fmt.Printf("movieids version %s\n", Version)
		return
	}

	ctx, err := newContext(passedFlags(kctx))
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// passedFlags returns the names of the flags given on the command line.
// Flags filled in from their defaults are not part of the parse path.
func passedFlags(kctx *kong.Context) map[string]bool {
	passed := make(map[string]bool)
	for _, p := range kctx.Path {
		if p.Flag != nil {
			passed[p.Flag.Name] = true
		}
	}
	return passed
}

// newContext resolves configuration from the config file and the CLI flags
// named in passed
func newContext(passed map[string]bool) (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{Debug: CLI.Debug}
	if passed["input"] {
		input := CLI.Input
		overrides.Input = &input
	}
	if passed["output"] {
		output := CLI.Output
		overrides.Output = &output
	}
	if passed["id-field"] {
		idField := CLI.IDField
		overrides.IDField = &idField
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load config file '%s'", configPath), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError(err.Error(), errors.ErrInvalidConfig)
	}

	logger := logging.New(os.Stderr, cfg.Dev.Debug)
	if configPath != "" {
		logger.WithField("path", configPath).Debug("Loaded config file")
	}

	return &Context{Config: cfg, Logger: logger}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	ext := extractor.NewExtractor(ctx.Config, ctx.Logger)

	res, err := ext.ExtractFile(ctx.Config.Input, ctx.Config.Output)
	if err != nil {
		return err
	}

	if len(res.Warnings) > 0 {
		ctx.Logger.WithField("mode", res.Mode).Debugf("Skipped %d invalid lines", len(res.Warnings))
	}
	return nil
}
