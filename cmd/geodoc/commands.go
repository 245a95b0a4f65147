package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/woozymasta/geodoc/internal/docio"
	"github.com/woozymasta/geodoc/internal/geo"
	"github.com/woozymasta/geodoc/internal/processor"
	"github.com/woozymasta/geodoc/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type sourceArg struct {
	Source string `positional-arg-name:"source" description:"File path, - for stdin or http(s) URL" required:"yes"`
}

type bboxCommand struct {
	Args sourceArg `positional-args:"yes"`
	app  *app
}

type convertCommand struct {
	Args sourceArg `positional-args:"yes"`
	app  *app
}

type infoCommand struct {
	Args sourceArg `positional-args:"yes"`
	app  *app
}

type idsCommand struct {
	Args sourceArg `positional-args:"yes"`
	app  *app
}

type mergeCommand struct {
	Concurrency int `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Parallel reads" default:"8"`
	Args        struct {
		Sources []string `positional-arg-name:"source" description:"Documents to merge" required:"2"`
	} `positional-args:"yes"`
	app *app
}

type importCommand struct {
	Kind    string    `short:"k" long:"kind" description:"Marker list format" choice:"izurvive" choice:"xam" choice:"cfgnames" required:"true"`
	MapSize float64   `short:"s" long:"size" description:"Map size in meters (e.g. 15360 for Chernarus)"`
	Args    sourceArg `positional-args:"yes"`
	app     *app
}

type clipCommand struct {
	Within string    `short:"w" long:"within" description:"Clip box as west,south,east,north" required:"true"`
	Args   sourceArg `positional-args:"yes"`
	app    *app
}

type serveCommand struct {
	Addr string `short:"a" long:"addr" env:"LISTEN_ADDRESS" description:"Address to listen on" default:"0.0.0.0"`
	Port int    `long:"port"           env:"LISTEN_PORT"    description:"Port to listen on"    default:"8080"`
	app  *app
}

func addCommands(parser *flags.Parser, a *app) {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"bbox", "Compute bounding boxes", "Compute the bounding box of every object and write the patched document", &bboxCommand{app: a}},
		{"convert", "Re-encode a document", "Write a document in the output format with the selected bbox policy", &convertCommand{app: a}},
		{"info", "Describe a document", "Write the type, member counts, positions, bounding box and centre of a document", &infoCommand{app: a}},
		{"ids", "Assign feature ids", "Give every feature without an id a random UUID", &idsCommand{app: a}},
		{"merge", "Merge documents", "Merge the features of several documents into one FeatureCollection", &mergeCommand{app: a}},
		{"import", "Import marker lists", "Convert iZurvive, Xam or cfgNames.hpp locations into a FeatureCollection", &importCommand{app: a}},
		{"clip", "Clip features to a box", "Cut every feature to a box and drop the features left empty", &clipCommand{app: a}},
		{"serve", "Serve documents over HTTP", "Publish the documents listed in the configuration", &serveCommand{app: a}},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("Failed to register command")
		}
	}
}

// context bounds a command by the configured timeout. A zero timeout never expires.
func (a *app) context() (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}

	return context.WithTimeout(context.Background(), a.cfg.Timeout)
}

// load reads one source honoring the input format option.
func (a *app) load(src string) (geo.Object, error) {
	ctx, cancel := a.context()
	defer cancel()

	return docio.Load(ctx, a.client, src, a.opts.InputFormat)
}

// emit encodes v with the configured output options and writes it.
func (a *app) emit(v any) error {
	data, err := docio.Encode(v, docio.OptionsFromConfig(a.cfg))
	if err != nil {
		return err
	}

	return docio.Write(a.opts.Output, data)
}

func (c *bboxCommand) Execute([]string) error {
	o, err := c.app.load(c.Args.Source)
	if err != nil {
		return err
	}

	geo.ComputeBBoxes(o)
	o.Save()

	return c.app.emit(o.Record())
}

func (c *convertCommand) Execute([]string) error {
	o, err := c.app.load(c.Args.Source)
	if err != nil {
		return err
	}

	return c.app.emit(o.ToJSON(c.app.cfg.Policy()))
}

func (c *infoCommand) Execute([]string) error {
	o, err := c.app.load(c.Args.Source)
	if err != nil {
		return err
	}

	s := processor.Summarize(o)

	event := log.Info().
		Str("source", c.Args.Source).
		Str("type", string(s.Type)).
		Int("features", s.Features).
		Int("geometries", s.Geometries).
		Int("positions", s.Positions)
	if s.BBox != nil {
		event = event.Stringer("bbox", s.BBox)
	}
	if s.Center != nil {
		event = event.Floats64("center", []float64{s.Center.X(), s.Center.Y()})
	}
	event.Msg("Document summary")

	return c.app.emit(s)
}

func (c *idsCommand) Execute([]string) error {
	o, err := c.app.load(c.Args.Source)
	if err != nil {
		return err
	}

	n, err := processor.AssignIDs(o, nil)
	if err != nil {
		return err
	}
	o.Save()

	log.Info().Str("source", c.Args.Source).Int("assigned", n).Msg("Feature ids assigned")

	return c.app.emit(o.Record())
}

func (c *mergeCommand) Execute([]string) error {
	ctx, cancel := c.app.context()
	defer cancel()

	docs, err := processor.LoadAll(ctx, c.app.client, c.Args.Sources, c.app.opts.InputFormat, c.Concurrency)
	if err != nil {
		return err
	}

	fc, err := processor.Merge(docs...)
	if err != nil {
		return err
	}

	log.Info().Int("documents", len(docs)).Int("features", fc.Len()).Msg("Documents merged")

	return c.app.emit(fc.ToJSON(c.app.cfg.Policy()))
}

func (c *importCommand) Execute([]string) error {
	ctx, cancel := c.app.context()
	defer cancel()

	fc, err := processor.ImportLocations(ctx, c.app.client, processor.Source{
		Location: c.Args.Source,
		Format:   c.Kind,
		MapSize:  c.MapSize,
	})
	if err != nil {
		return err
	}

	return c.app.emit(fc.ToJSON(c.app.cfg.Policy()))
}

func (c *clipCommand) Execute([]string) error {
	box, err := parseBox(c.Within)
	if err != nil {
		return err
	}

	o, err := c.app.load(c.Args.Source)
	if err != nil {
		return err
	}

	fc, err := processor.Clip(o, box)
	if err != nil {
		return err
	}

	log.Info().Str("source", c.Args.Source).Stringer("within", box).Int("features", fc.Len()).Msg("Document clipped")

	return c.app.emit(fc.ToJSON(c.app.cfg.Policy()))
}

// parseBox reads a comma separated bbox array.
func parseBox(s string) (geo.BoundingBox, error) {
	fields := strings.Split(s, ",")
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return geo.BoundingBox{}, fmt.Errorf("box %q: %w", s, err)
		}
		values[i] = v
	}

	return geo.BBoxFromJSON(values)
}

func (c *serveCommand) Execute([]string) error {
	srvCtx := server.NewServerContext(c.app.cfg, c.app.client)

	listenAddr := fmt.Sprintf("%s:%d", c.Addr, c.Port)
	srv := &http.Server{Addr: listenAddr, Handler: srvCtx.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down web server")
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("documents_loaded", len(c.app.cfg.Documents)).
		Str("bbox", c.app.cfg.BBox).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
