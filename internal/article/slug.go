package article

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// maxSlugRunes caps slugs derived from titles.
const maxSlugRunes = 200

var (
	slugSepRe  = regexp.MustCompile(`[\s_]+`)
	slugDashRe = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a title: lower-cased, punctuation removed,
// whitespace and underscores joined by single dashes, at most 200 runes.
// Letters outside ASCII are kept.
func Slugify(title string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' || r == '-' {
			return r
		}
		return -1
	}, strings.TrimSpace(strings.ToLower(title)))

	s = slugSepRe.ReplaceAllString(s, "-")
	s = slugDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return truncate(s, maxSlugRunes)
}

// SlugSet hands out unique slugs.
type SlugSet struct {
	seen map[string]struct{}
}

// NewSlugSet creates an empty set.
func NewSlugSet() *SlugSet {
	return &SlugSet{seen: make(map[string]struct{})}
}

// Claim returns slug, or slug-1, slug-2, ... if it is taken, and records the
// result as taken.
func (s *SlugSet) Claim(slug string) string {
	candidate := slug
	for n := 1; s.has(candidate); n++ {
		candidate = slug + "-" + strconv.Itoa(n)
	}
	s.seen[candidate] = struct{}{}
	return candidate
}

// Len returns the number of slugs claimed.
func (s *SlugSet) Len() int {
	return len(s.seen)
}

func (s *SlugSet) has(slug string) bool {
	_, ok := s.seen[slug]
	return ok
}
