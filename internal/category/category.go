// Package category assigns an article to a category by keyword counting.
//
// The keyword table is immutable once built and is passed to the Classifier
// explicitly. It can be loaded from YAML:
//
//	fallback: Insight
//	categories:
//	  - label: Market
//	    keywords: [saham, bursa, ihsg]
//	  - label: Tech
//	    keywords: [teknologi, "ai "]
//
// Keywords are matched as lower-case substrings, so trailing spaces are
// significant ("ai " does not match "air").
package category

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// contentWindow is how many leading runes of the body take part in scoring.
const contentWindow = 500

// ErrEmptyTable is returned when a table has no categories.
var ErrEmptyTable = errors.New("category: table has no categories")

// Category is one label and its keywords.
type Category struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Table is an ordered, read-only set of categories. Order decides ties.
type Table struct {
	categories []Category
	fallback   string
}

type tableFile struct {
	Fallback   string     `yaml:"fallback"`
	Categories []Category `yaml:"categories"`
}

// NewTable copies cats into a Table. Keywords are lower-cased; labels must be
// unique and non-empty.
func NewTable(cats []Category, fallback string) (Table, error) {
	if len(cats) == 0 {
		return Table{}, ErrEmptyTable
	}

	seen := make(map[string]bool, len(cats))
	out := make([]Category, 0, len(cats))
	for i, c := range cats {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			return Table{}, fmt.Errorf("category: entry %d has no label", i)
		}
		if seen[label] {
			return Table{}, fmt.Errorf("category: duplicate label %q", label)
		}
		seen[label] = true

		kws := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			if k == "" {
				continue
			}
			kws = append(kws, strings.ToLower(k))
		}
		out = append(out, Category{Label: label, Keywords: kws})
	}

	if fallback == "" {
		fallback = out[0].Label
	}
	return Table{categories: out, fallback: fallback}, nil
}

// LoadTable reads a YAML table from r.
func LoadTable(r io.Reader) (Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, ErrEmptyTable
		}
		return Table{}, fmt.Errorf("category: decode: %w", err)
	}
	return NewTable(f.Categories, f.Fallback)
}

// LoadTableFile reads a YAML table from path.
func LoadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("category: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

// Categories returns a copy of the categories in order.
func (t Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Label: c.Label, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Fallback returns the label used when nothing scores.
func (t Table) Fallback() string {
	return t.fallback
}

// Labels returns the category labels in order.
func (t Table) Labels() []string {
	labels := make([]string, len(t.categories))
	for i, c := range t.categories {
		labels[i] = c.Label
	}
	return labels
}

// Classifier scores text against a Table.
type Classifier struct {
	table Table
}

// NewClassifier creates a Classifier for table.
func NewClassifier(table Table) *Classifier {
	return &Classifier{table: table}
}

// Scores returns the non-zero score of each category. A keyword found in the
// title scores 2; found in the title plus the first 500 runes of content it
// scores 1 more.
func (c *Classifier) Scores(title, content string) map[string]int {
	lowerTitle := strings.ToLower(title)
	combined := strings.ToLower(title + " " + prefix(content, contentWindow))

	scores := make(map[string]int)
	for _, cat := range c.table.categories {
		score := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lowerTitle, kw) {
				score += 2
			}
			if strings.Contains(combined, kw) {
				score++
			}
		}
		if score > 0 {
			scores[cat.Label] = score
		}
	}
	return scores
}

// Assign returns the best scoring label. Ties go to the category listed
// first; with no matches the table's fallback is returned.
func (c *Classifier) Assign(title, content string) string {
	scores := c.Scores(title, content)

	best, bestScore := "", 0
	for _, cat := range c.table.categories {
		if s := scores[cat.Label]; s > bestScore {
			best, bestScore = cat.Label, s
		}
	}
	if best == "" {
		return c.table.fallback
	}
	return best
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
