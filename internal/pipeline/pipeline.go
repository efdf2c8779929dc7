// Package pipeline extracts articles from a WordPress SQL dump.
//
// A run reads the whole dump, locates the INSERT blocks of the posts table
// and tokenizes them on a bounded pool of goroutines. Rows are then mapped
// to articles on the calling goroutine in dump order, because slug
// de-duplication depends on that order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shapestone/shape-sqldump/internal/article"
	"github.com/shapestone/shape-sqldump/internal/category"
	"github.com/shapestone/shape-sqldump/internal/dump"
	"github.com/shapestone/shape-sqldump/internal/htmlclean"
	"github.com/shapestone/shape-sqldump/pkg/sqlvalues"
)

// Config controls a run.
type Config struct {
	// Table is the posts table name, e.g. wp_posts.
	Table string
	// Workers bounds concurrent block tokenization. Zero means GOMAXPROCS.
	Workers int
	// HTML configures body cleanup.
	HTML htmlclean.Options
	// Categories is the keyword table used for classification.
	Categories category.Table
	// Article holds the mapping thresholds.
	Article article.Options
	// Logger receives progress events. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns the settings used for the grapadinews.co.id export.
func DefaultConfig() Config {
	return Config{
		Table:      "gra_posts",
		HTML:       htmlclean.DefaultOptions(),
		Categories: category.DefaultTable(),
		Article:    article.DefaultOptions(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Table == "" {
		return dump.ErrNoTable
	}
	if c.Workers < 0 {
		return fmt.Errorf("pipeline: Workers must be >= 0, got %d", c.Workers)
	}
	if len(c.Categories.Labels()) == 0 {
		return category.ErrEmptyTable
	}
	return c.Article.Validate()
}

// Stats summarizes a run.
type Stats struct {
	Blocks    int
	Rows      int
	Truncated int
	Articles  int
	// Skipped counts rejected rows by reason.
	Skipped map[string]int
	// Categories and Statuses count accepted articles.
	Categories map[string]int
	Statuses   map[string]int
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Articles []article.Article
	Stats    Stats
}

// RunFile runs the pipeline over the dump at path. The file is
// memory-mapped rather than read onto the heap.
func RunFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	return run(ctx, cfg, func() ([]dump.Block, error) {
		return dump.ReadFile(path, cfg.Table)
	})
}

// Run reads a dump from r and returns the extracted articles.
func Run(ctx context.Context, r io.Reader, cfg Config) (*Result, error) {
	return run(ctx, cfg, func() ([]dump.Block, error) {
		return dump.ReadBlocks(r, cfg.Table)
	})
}

func run(ctx context.Context, cfg Config, read func() ([]dump.Block, error)) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("run_id", runID).Logger()
	}

	mapper, err := article.NewMapper(
		htmlclean.New(cfg.HTML),
		category.NewClassifier(cfg.Categories),
		cfg.Article,
	)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("table", cfg.Table).Msg("reading dump")
	blocks, err := read()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	logger.Info().Int("blocks", len(blocks)).Msg("located insert blocks")

	rows, truncated, err := tokenizeBlocks(ctx, blocks, cfg.Workers, &logger)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID: runID,
		Stats: Stats{
			Blocks:     len(blocks),
			Truncated:  truncated,
			Skipped:    make(map[string]int),
			Categories: make(map[string]int),
			Statuses:   make(map[string]int),
		},
	}

	for i := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, row := range rows[i] {
			res.Stats.Rows++
			a, err := mapper.Map(row)
			if err != nil {
				reason := skipReason(err)
				res.Stats.Skipped[reason]++
				logger.Trace().Str("reason", reason).Err(err).Msg("row skipped")
				continue
			}
			res.Articles = append(res.Articles, a)
			res.Stats.Categories[a.Category]++
			res.Stats.Statuses[a.Status]++
		}
	}
	res.Stats.Articles = len(res.Articles)

	logger.Info().
		Int("rows", res.Stats.Rows).
		Int("articles", res.Stats.Articles).
		Int("truncated_blocks", res.Stats.Truncated).
		Msg("extraction finished")

	return res, nil
}

// tokenizeBlocks scans every block concurrently. The result is indexed like
// blocks. Truncated blocks are logged and counted, not treated as failures.
func tokenizeBlocks(ctx context.Context, blocks []dump.Block, workers int, logger *zerolog.Logger) ([][]sqlvalues.Row, int, error) {
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([][]sqlvalues.Row, len(blocks))
	bad := make([]bool, len(blocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, b := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := sqlvalues.Scan(b.Body)
			if err != nil {
				bad[i] = true
				logger.Warn().
					Int("block", i).
					Int("offset", b.Offset).
					Int("rows", len(r)).
					Err(err).
					Msg("block did not end cleanly")
			}
			if e := logger.Debug(); e.Enabled() {
				e.Int("block", i).
					Strs("columns", b.Columns).
					Int("rows", len(r)).
					Msg("block tokenized")
			}
			rows[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	truncated := 0
	for _, b := range bad {
		if b {
			truncated++
		}
	}
	return rows, truncated, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, article.ErrShortRow):
		return "short_row"
	case errors.Is(err, article.ErrNotPost):
		return "not_post"
	case errors.Is(err, article.ErrStatus):
		return "status"
	case errors.Is(err, article.ErrShortBody):
		return "short_body"
	default:
		return "other"
	}
}

// Count is one entry of a distribution.
type Count struct {
	Key   string
	Count int
}

// Distribution orders counts by descending value, then by key.
func Distribution(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
