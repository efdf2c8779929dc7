// Package article maps rows of a WordPress posts table to seedable articles.
//
// Rows are expected in the column order of a stock wp_posts table; only the
// positions below are read. A Mapper keeps the set of slugs it has handed out,
// so rows must be mapped one at a time in dump order.
package article

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-sqldump/internal/category"
	"github.com/shapestone/shape-sqldump/internal/htmlclean"
	"github.com/shapestone/shape-sqldump/pkg/sqlvalues"
)

// Column positions in a wp_posts row.
const (
	colID      = 0
	colDate    = 2
	colContent = 4
	colTitle   = 5
	colExcerpt = 6
	colStatus  = 7
	colName    = 11
	colType    = 20

	// MinFields is the shortest row Map accepts.
	MinFields = 23
)

// zeroDate is what MySQL writes for an unset DATETIME.
const zeroDate = "0000-00-00 00:00:00"

// Status values written to Article.Status.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Reasons a row is skipped. Map wraps one of these in every error it returns.
var (
	ErrShortRow  = errors.New("row has too few fields")
	ErrNotPost   = errors.New("not a post")
	ErrStatus    = errors.New("status is neither publish nor draft")
	ErrShortBody = errors.New("body too short")
)

// Article is one post ready for import.
type Article struct {
	WPID        int64   `json:"wp_id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Excerpt     string  `json:"excerpt"`
	Body        string  `json:"body"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	PublishedAt *string `json:"published_at"`
	ViewCount   int     `json:"view_count"`
}

// Options holds the length thresholds used while mapping.
type Options struct {
	// MinBodyRunes drops posts whose cleaned body is shorter.
	MinBodyRunes int
	// RawExcerptMinRunes is the trimmed length a stored excerpt must exceed
	// to be used instead of a generated one.
	RawExcerptMinRunes int
	// RawExcerptRunes caps a stored excerpt.
	RawExcerptRunes int
	// ExcerptRunes caps a generated excerpt before the ellipsis.
	ExcerptRunes int
}

// DefaultOptions returns the thresholds used for the grapadinews.co.id export.
func DefaultOptions() Options {
	return Options{
		MinBodyRunes:       50,
		RawExcerptMinRunes: 10,
		RawExcerptRunes:    300,
		ExcerptRunes:       200,
	}
}

// Validate checks that every threshold is usable.
func (o Options) Validate() error {
	switch {
	case o.MinBodyRunes < 0:
		return fmt.Errorf("article: MinBodyRunes must be >= 0, got %d", o.MinBodyRunes)
	case o.RawExcerptMinRunes < 0:
		return fmt.Errorf("article: RawExcerptMinRunes must be >= 0, got %d", o.RawExcerptMinRunes)
	case o.RawExcerptRunes <= 0:
		return fmt.Errorf("article: RawExcerptRunes must be > 0, got %d", o.RawExcerptRunes)
	case o.ExcerptRunes <= 0:
		return fmt.Errorf("article: ExcerptRunes must be > 0, got %d", o.ExcerptRunes)
	}
	return nil
}

// Mapper turns rows into Articles. It is not safe for concurrent use.
type Mapper struct {
	cleaner    *htmlclean.Cleaner
	classifier *category.Classifier
	slugs      *SlugSet
	opts       Options
}

// NewMapper creates a Mapper with an empty slug set.
func NewMapper(cleaner *htmlclean.Cleaner, classifier *category.Classifier, opts Options) (*Mapper, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{
		cleaner:    cleaner,
		classifier: classifier,
		slugs:      NewSlugSet(),
		opts:       opts,
	}, nil
}

// Map converts one row. A skipped row returns an error wrapping one of
// ErrShortRow, ErrNotPost, ErrStatus or ErrShortBody; the slug set is only
// updated for rows that are accepted.
func (m *Mapper) Map(row sqlvalues.Row) (Article, error) {
	if len(row) < MinFields {
		return Article{}, fmt.Errorf("%w: %d < %d", ErrShortRow, len(row), MinFields)
	}

	if t := row[colType]; t != "post" {
		return Article{}, fmt.Errorf("%w: type %q", ErrNotPost, t)
	}

	var status string
	switch row[colStatus] {
	case "publish":
		status = StatusPublished
	case "draft":
		status = StatusDraft
	default:
		return Article{}, fmt.Errorf("%w: %q", ErrStatus, row[colStatus])
	}

	body := m.cleaner.Clean(row[colContent])
	title := strings.TrimSpace(html.UnescapeString(sqlvalues.Unescape(row[colTitle])))

	if n := utf8.RuneCountInString(body); n < m.opts.MinBodyRunes {
		return Article{}, fmt.Errorf("%w: %d runes", ErrShortBody, n)
	}

	slug := sqlvalues.Unescape(row[colName])
	if slug == "" {
		slug = Slugify(title)
	}

	return Article{
		WPID:        parseID(row[colID]),
		Title:       title,
		Slug:        m.slugs.Claim(slug),
		Excerpt:     m.excerpt(sqlvalues.Unescape(row[colExcerpt]), body),
		Body:        body,
		Category:    m.classifier.Assign(title, body),
		Status:      status,
		PublishedAt: publishedAt(row[colDate]),
	}, nil
}

// excerpt prefers the stored excerpt and falls back to one cut from body.
func (m *Mapper) excerpt(raw, body string) string {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) > m.opts.RawExcerptMinRunes {
		return truncate(strings.TrimSpace(StripTags(raw)), m.opts.RawExcerptRunes)
	}
	return GenerateExcerpt(body, m.opts.ExcerptRunes)
}

// parseID returns the numeric post id, or 0 when the field is not a plain
// unsigned integer.
func parseID(s string) int64 {
	if s == "" {
		return 0
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func publishedAt(date string) *string {
	if date == zeroDate {
		return nil
	}
	return &date
}
