package article

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// StripTags returns the text content of an HTML fragment with entities
// decoded. It falls back to removing tags by pattern if the fragment cannot
// be parsed.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return tagRe.ReplaceAllString(fragment, "")
	}
	return doc.Text()
}

// GenerateExcerpt builds a plain-text summary of body. Whitespace runs are
// collapsed; text longer than limit runes is cut back to the last space
// within the limit and suffixed with "...".
func GenerateExcerpt(body string, limit int) string {
	text := strings.Join(strings.Fields(StripTags(body)), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	text = truncate(text, limit)
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		text = text[:i]
	}
	return text + "..."
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
