package main

import (
	"net/http"
	"os"

	"github.com/woozymasta/geodoc/internal/config"
	"github.com/woozymasta/geodoc/internal/docio"
	"github.com/woozymasta/geodoc/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"GEODOC_CONFIG"  description:"Path to configuration file"`
	BBox        string `short:"b" long:"bbox"         env:"GEODOC_BBOX"    description:"BBox policy of the output" choice:"if-present" choice:"include" choice:"exclude"`
	Format      string `short:"f" long:"format"       env:"GEODOC_FORMAT"  description:"Output format" choice:"json" choice:"yaml"`
	InputFormat string `short:"i" long:"input-format"                      description:"Input format, detected from the extension if empty" choice:"json" choice:"yaml"`
	Indent      *int   `long:"indent"                                      description:"Indent width, 0 for compact JSON"`
	Minify      bool   `short:"m" long:"minify"                            description:"Minify JSON output"`
	Pretty      bool   `short:"P" long:"pretty"                            description:"Pretty print JSON output"`
	Output      string `short:"o" long:"out"                               description:"Output file path. Writes to stdout if empty or -"`
}

// app is the state shared by commands once options and configuration are loaded.
type app struct {
	opts   *Options
	cfg    *config.Config
	client *http.Client
}

// setup applies logging, loads the configuration and overrides it with flags.
func (a *app) setup() error {
	a.opts.Logger.Setup()

	cfg, err := config.Load(a.opts.ConfigFile)
	if err != nil {
		return err
	}

	if a.opts.BBox != "" {
		cfg.BBox = a.opts.BBox
	}
	if a.opts.Format != "" {
		cfg.Format = a.opts.Format
	}
	if a.opts.Indent != nil {
		cfg.Indent = *a.opts.Indent
	}
	if a.opts.Minify {
		cfg.Minify, cfg.Pretty = true, false
	}
	if a.opts.Pretty {
		cfg.Pretty, cfg.Minify = true, false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.client = docio.NewClient(cfg.Timeout)

	log.Debug().
		Str("config", a.opts.ConfigFile).
		Str("bbox", cfg.BBox).
		Str("format", cfg.Format).
		Msg("Configuration loaded")

	return nil
}

func newParser(a *app) *flags.Parser {
	parser := flags.NewParser(a.opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := a.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}
	addCommands(parser, a)

	return parser
}

func main() {
	a := &app{opts: &Options{}}
	parser := newParser(a)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Command failed")
	}
}
