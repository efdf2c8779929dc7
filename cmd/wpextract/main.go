// Command wpextract pulls published and draft posts out of a WordPress SQL
// dump and writes them as JSON, and optionally into a SQLite database.
//
//	wpextract -in dump.sql -out data/wp_articles.json -table wp_posts
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shapestone/shape-sqldump/internal/category"
	"github.com/shapestone/shape-sqldump/internal/pipeline"
	"github.com/shapestone/shape-sqldump/internal/sink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	in         string
	out        string
	table      string
	sqlite     string
	categories string
	legacyHost string
	workers    int
	logLevel   string
	logFormat  string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := pipeline.DefaultConfig()

	var o options
	fs := flag.NewFlagSet("wpextract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "SQL dump to read (required)")
	fs.StringVar(&o.out, "out", "wp_articles.json", "JSON output path")
	fs.StringVar(&o.table, "table", def.Table, "posts table name")
	fs.StringVar(&o.sqlite, "sqlite", "", "also write articles to this SQLite database")
	fs.StringVar(&o.categories, "categories", "", "YAML category keyword table (default: built-in)")
	fs.StringVar(&o.legacyHost, "legacy-host", def.HTML.LegacyHost, "old site host whose wp-content links are unwrapped")
	fs.IntVar(&o.workers, "workers", 0, "concurrent block tokenizers (0 = GOMAXPROCS)")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "console", "log format: console or json")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: wpextract -in dump.sql [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		fs.Usage()
		return o, errors.New("-in is required")
	}
	return o, nil
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid -log-level %q", level)
	}

	switch format {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Logger{}, fmt.Errorf("invalid -log-format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "wpextract: %v\n", err)
		return 2
	}

	logger, err := newLogger(stderr, o.logLevel, o.logFormat)
	if err != nil {
		fmt.Fprintf(stderr, "wpextract: %v\n", err)
		return 2
	}

	cfg := pipeline.DefaultConfig()
	cfg.Table = o.table
	cfg.Workers = o.workers
	cfg.HTML.LegacyHost = o.legacyHost
	cfg.Logger = &logger
	if o.categories != "" {
		table, err := category.LoadTableFile(o.categories)
		if err != nil {
			logger.Error().Err(err).Str("path", o.categories).Msg("loading categories")
			return 1
		}
		cfg.Categories = table
	}

	res, err := pipeline.RunFile(ctx, o.in, cfg)
	if err != nil {
		logger.Error().Err(err).Str("path", o.in).Msg("extraction failed")
		return 1
	}

	log := logger.With().Str("run_id", res.RunID).Logger()
	for _, c := range pipeline.Distribution(res.Stats.Categories) {
		log.Info().Str("category", c.Key).Int("count", c.Count).Msg("category distribution")
	}
	for _, c := range pipeline.Distribution(res.Stats.Statuses) {
		log.Info().Str("status", c.Key).Int("count", c.Count).Msg("status distribution")
	}
	for _, c := range pipeline.Distribution(res.Stats.Skipped) {
		log.Debug().Str("reason", c.Key).Int("count", c.Count).Msg("skipped rows")
	}

	if err := sink.WriteJSONFile(o.out, res.Articles); err != nil {
		log.Error().Err(err).Msg("writing json")
		return 1
	}
	log.Info().Str("path", o.out).Int("articles", len(res.Articles)).Msg("saved json")

	if o.sqlite != "" {
		if err := sink.WriteSQLite(o.sqlite, res.Articles); err != nil {
			log.Error().Err(err).Msg("writing sqlite")
			return 1
		}
		log.Info().Str("path", o.sqlite).Msg("saved sqlite")
	}
	return 0
}
